// Package database implements the core.Store contract on PostgreSQL via
// pgx. All SQL lives here; the core never sees a connection.
package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
)

//go:embed schema.sql
var schemaSQL string

// Store is the PostgreSQL-backed core.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ core.Store = (*Store)(nil)

// NewStore creates a Store over an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema applies the embedded DDL. Every statement is idempotent,
// so startup can run it unconditionally.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// shipmentColumns is the column list shared by every shipment SELECT,
// in scanShipment order.
const shipmentColumns = `
	id,
	ship_from_first_name, ship_from_last_name, ship_from_address, ship_from_address2,
	ship_from_city, ship_from_state, ship_from_zip, ship_from_phone,
	ship_to_first_name, ship_to_last_name, ship_to_address, ship_to_address2,
	ship_to_city, ship_to_state, ship_to_zip, ship_to_phone,
	weight_lbs, weight_oz, length, width, height,
	order_no, item_sku, row_number,
	status, validation_issues,
	address_validation_status, address_validation_source, address_validation_message,
	shipping_service, calculated_price_cents,
	created_at, updated_at`

func scanShipment(row pgx.Row) (*core.Shipment, error) {
	var (
		s       core.Shipment
		id      = pgUUID(uuid.Nil)
		lbs, oz = pgInt4(nil), pgInt4(nil)
		l, w, h = pgFloat8(nil), pgFloat8(nil), pgFloat8(nil)
		price   = pgCents(nil)
	)
	err := row.Scan(
		&id,
		&s.ShipFromFirstName, &s.ShipFromLastName, &s.ShipFromStreet, &s.ShipFromStreet2,
		&s.ShipFromCity, &s.ShipFromState, &s.ShipFromZip, &s.ShipFromPhone,
		&s.ShipToFirstName, &s.ShipToLastName, &s.ShipToStreet, &s.ShipToStreet2,
		&s.ShipToCity, &s.ShipToState, &s.ShipToZip, &s.ShipToPhone,
		&lbs, &oz, &l, &w, &h,
		&s.OrderNo, &s.ItemSKU, &s.RowNumber,
		&s.Status, &s.Issues,
		&s.AddressVerifyStatus, &s.AddressVerifySource, &s.AddressVerifyMessage,
		&s.ShippingService, &price,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan shipment: %w", err)
	}
	s.ID = fromPgUUID(id)
	s.WeightLbs = fromPgInt4(lbs)
	s.WeightOz = fromPgInt4(oz)
	s.Length = fromPgFloat8(l)
	s.Width = fromPgFloat8(w)
	s.Height = fromPgFloat8(h)
	s.CalculatedPrice = fromPgCents(price)
	return &s, nil
}

func (s *Store) CreateShipment(ctx context.Context, sh *core.Shipment) error {
	if sh.ID == uuid.Nil {
		sh.ID = uuid.New()
	}
	now := time.Now().UTC()
	sh.CreatedAt = now
	sh.UpdatedAt = now
	issues := sh.Issues
	if issues == nil {
		issues = []string{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO shipments (
			id,
			ship_from_first_name, ship_from_last_name, ship_from_address, ship_from_address2,
			ship_from_city, ship_from_state, ship_from_zip, ship_from_phone,
			ship_to_first_name, ship_to_last_name, ship_to_address, ship_to_address2,
			ship_to_city, ship_to_state, ship_to_zip, ship_to_phone,
			weight_lbs, weight_oz, length, width, height,
			order_no, item_sku, row_number,
			status, validation_issues,
			address_validation_status, address_validation_source, address_validation_message,
			shipping_service, calculated_price_cents,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34
		)`,
		pgUUID(sh.ID),
		sh.ShipFromFirstName, sh.ShipFromLastName, sh.ShipFromStreet, sh.ShipFromStreet2,
		sh.ShipFromCity, sh.ShipFromState, sh.ShipFromZip, sh.ShipFromPhone,
		sh.ShipToFirstName, sh.ShipToLastName, sh.ShipToStreet, sh.ShipToStreet2,
		sh.ShipToCity, sh.ShipToState, sh.ShipToZip, sh.ShipToPhone,
		pgInt4(sh.WeightLbs), pgInt4(sh.WeightOz),
		pgFloat8(sh.Length), pgFloat8(sh.Width), pgFloat8(sh.Height),
		sh.OrderNo, sh.ItemSKU, sh.RowNumber,
		sh.Status, issues,
		sh.AddressVerifyStatus, sh.AddressVerifySource, sh.AddressVerifyMessage,
		sh.ShippingService, pgCents(sh.CalculatedPrice),
		sh.CreatedAt, sh.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

func (s *Store) GetShipment(ctx context.Context, id uuid.UUID) (*core.Shipment, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, pgUUID(id))
	return scanShipment(row)
}

func (s *Store) ListShipments(ctx context.Context, f core.ShipmentFilter) ([]*core.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments`
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(
			order_no ILIKE $%d OR ship_to_first_name ILIKE $%d OR
			ship_to_last_name ILIKE $%d OR ship_to_address ILIKE $%d OR
			ship_to_city ILIKE $%d)`, n, n, n, n, n))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()
	return collectShipments(rows)
}

func (s *Store) ShipmentsByIDs(ctx context.Context, ids []uuid.UUID) ([]*core.Shipment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = ANY($1) ORDER BY created_at`,
		pgUUIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("shipments by ids: %w", err)
	}
	defer rows.Close()
	return collectShipments(rows)
}

func collectShipments(rows pgx.Rows) ([]*core.Shipment, error) {
	var out []*core.Shipment
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) UpdateShipment(ctx context.Context, sh *core.Shipment) error {
	sh.UpdatedAt = time.Now().UTC()
	issues := sh.Issues
	if issues == nil {
		issues = []string{}
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE shipments SET
			ship_from_first_name = $2, ship_from_last_name = $3,
			ship_from_address = $4, ship_from_address2 = $5,
			ship_from_city = $6, ship_from_state = $7, ship_from_zip = $8, ship_from_phone = $9,
			ship_to_first_name = $10, ship_to_last_name = $11,
			ship_to_address = $12, ship_to_address2 = $13,
			ship_to_city = $14, ship_to_state = $15, ship_to_zip = $16, ship_to_phone = $17,
			weight_lbs = $18, weight_oz = $19, length = $20, width = $21, height = $22,
			order_no = $23, item_sku = $24,
			status = $25, validation_issues = $26,
			address_validation_status = $27, address_validation_source = $28,
			address_validation_message = $29,
			shipping_service = $30, calculated_price_cents = $31,
			updated_at = $32
		WHERE id = $1`,
		pgUUID(sh.ID),
		sh.ShipFromFirstName, sh.ShipFromLastName, sh.ShipFromStreet, sh.ShipFromStreet2,
		sh.ShipFromCity, sh.ShipFromState, sh.ShipFromZip, sh.ShipFromPhone,
		sh.ShipToFirstName, sh.ShipToLastName, sh.ShipToStreet, sh.ShipToStreet2,
		sh.ShipToCity, sh.ShipToState, sh.ShipToZip, sh.ShipToPhone,
		pgInt4(sh.WeightLbs), pgInt4(sh.WeightOz),
		pgFloat8(sh.Length), pgFloat8(sh.Width), pgFloat8(sh.Height),
		sh.OrderNo, sh.ItemSKU,
		sh.Status, issues,
		sh.AddressVerifyStatus, sh.AddressVerifySource, sh.AddressVerifyMessage,
		sh.ShippingService, pgCents(sh.CalculatedPrice),
		sh.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteShipments(ctx context.Context, ids []uuid.UUID) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM shipments WHERE id = ANY($1)`, pgUUIDs(ids))
	if err != nil {
		return 0, fmt.Errorf("delete shipments: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) AssignSenderAddress(ctx context.Context, ids []uuid.UUID, addr core.Address) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE shipments SET
			ship_from_first_name = $2, ship_from_last_name = $3,
			ship_from_address = $4, ship_from_address2 = $5,
			ship_from_city = $6, ship_from_state = $7, ship_from_zip = $8, ship_from_phone = $9,
			updated_at = now()
		WHERE id = ANY($1)`,
		pgUUIDs(ids),
		addr.FirstName, addr.LastName, addr.Street, addr.Street2,
		addr.City, addr.State, addr.Zip, addr.Phone,
	)
	if err != nil {
		return 0, fmt.Errorf("assign sender address: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) AssignPackage(ctx context.Context, ids []uuid.UUID, pkg core.PackageDetails) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE shipments SET
			weight_lbs = $2, weight_oz = $3, length = $4, width = $5, height = $6,
			updated_at = now()
		WHERE id = ANY($1)`,
		pgUUIDs(ids),
		pgInt4(pkg.WeightLbs), pgInt4(pkg.WeightOz),
		pgFloat8(pkg.Length), pgFloat8(pkg.Width), pgFloat8(pkg.Height),
	)
	if err != nil {
		return 0, fmt.Errorf("assign package: %w", err)
	}
	return tag.RowsAffected(), nil
}

const addressColumns = `
	id, name, first_name, last_name, address, address2,
	city, state, zip_code, phone, is_default, created_at, updated_at`

func scanAddress(row pgx.Row) (*core.SavedAddress, error) {
	var (
		a  core.SavedAddress
		id = pgUUID(uuid.Nil)
	)
	err := row.Scan(
		&id, &a.Name, &a.FirstName, &a.LastName, &a.Street, &a.Street2,
		&a.City, &a.State, &a.Zip, &a.Phone, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan address: %w", err)
	}
	a.ID = fromPgUUID(id)
	return &a, nil
}

func (s *Store) CreateAddress(ctx context.Context, a *core.SavedAddress) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := s.pool.Exec(ctx, `
		INSERT INTO saved_addresses (
			id, name, first_name, last_name, address, address2,
			city, state, zip_code, phone, is_default, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		pgUUID(a.ID), a.Name, a.FirstName, a.LastName, a.Street, a.Street2,
		a.City, a.State, a.Zip, a.Phone, a.IsDefault, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (s *Store) GetAddress(ctx context.Context, id uuid.UUID) (*core.SavedAddress, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM saved_addresses WHERE id = $1`, pgUUID(id))
	return scanAddress(row)
}

func (s *Store) ListAddresses(ctx context.Context) ([]*core.SavedAddress, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+addressColumns+` FROM saved_addresses ORDER BY is_default DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var out []*core.SavedAddress
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateAddress(ctx context.Context, a *core.SavedAddress) error {
	a.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx, `
		UPDATE saved_addresses SET
			name = $2, first_name = $3, last_name = $4, address = $5, address2 = $6,
			city = $7, state = $8, zip_code = $9, phone = $10, is_default = $11,
			updated_at = $12
		WHERE id = $1`,
		pgUUID(a.ID), a.Name, a.FirstName, a.LastName, a.Street, a.Street2,
		a.City, a.State, a.Zip, a.Phone, a.IsDefault, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM saved_addresses WHERE id = $1`, pgUUID(id))
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DefaultAddress(ctx context.Context) (*core.SavedAddress, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM saved_addresses
		 ORDER BY is_default DESC, created_at ASC LIMIT 1`)
	a, err := scanAddress(row)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	return a, err
}

const packageColumns = `
	id, name, length, width, height, weight_lbs, weight_oz, created_at, updated_at`

func scanPackage(row pgx.Row) (*core.SavedPackage, error) {
	var (
		p  core.SavedPackage
		id = pgUUID(uuid.Nil)
	)
	err := row.Scan(
		&id, &p.Name, &p.Length, &p.Width, &p.Height,
		&p.WeightLbs, &p.WeightOz, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan package: %w", err)
	}
	p.ID = fromPgUUID(id)
	return &p, nil
}

func (s *Store) CreatePackage(ctx context.Context, p *core.SavedPackage) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.pool.Exec(ctx, `
		INSERT INTO saved_packages (
			id, name, length, width, height, weight_lbs, weight_oz, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		pgUUID(p.ID), p.Name, p.Length, p.Width, p.Height,
		p.WeightLbs, p.WeightOz, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert package: %w", err)
	}
	return nil
}

func (s *Store) GetPackage(ctx context.Context, id uuid.UUID) (*core.SavedPackage, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+packageColumns+` FROM saved_packages WHERE id = $1`, pgUUID(id))
	return scanPackage(row)
}

func (s *Store) ListPackages(ctx context.Context) ([]*core.SavedPackage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+packageColumns+` FROM saved_packages ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var out []*core.SavedPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePackage(ctx context.Context, p *core.SavedPackage) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx, `
		UPDATE saved_packages SET
			name = $2, length = $3, width = $4, height = $5,
			weight_lbs = $6, weight_oz = $7, updated_at = $8
		WHERE id = $1`,
		pgUUID(p.ID), p.Name, p.Length, p.Width, p.Height,
		p.WeightLbs, p.WeightOz, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeletePackage(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM saved_packages WHERE id = $1`, pgUUID(id))
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
