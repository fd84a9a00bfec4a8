package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// orderItemRecord is the JSONB shape of one order line. Items never change
// after creation, so a document column beats a join table here.
type orderItemRecord struct {
	ID          string            `json:"id"`
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	UnitPrice   string            `json:"unit_price"`
	Quantity    int               `json:"quantity"`
	ItemAmount  string            `json:"item_amount"`
	Options     map[string]string `json:"options,omitempty"`
}

type PostgresRepository struct {
	db    *sql.DB
	clock domain.Clock
}

func NewPostgresRepository(cred *Credentials, clock domain.Clock) (*PostgresRepository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &PostgresRepository{db: db, clock: clock}, nil
}

func (r *PostgresRepository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "purchasing_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// Create inserts the order and its outbox events in one transaction, so an
// order row without its created-event (or the reverse) can never be observed.
func (r *PostgresRepository) Create(ctx context.Context, order *domain.Order, events []OutboxEvent) error {
	itemsJSON, err := marshalItems(order.Items())
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders
	          (id, customer_id, status, total_amount, currency, order_message, payment_id, order_channel, items, created_at, updated_at, completed_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, insertErr := tx.ExecContext(ctx, query,
		order.ID().String(),
		order.CustomerID().String(),
		string(order.Status()),
		order.TotalAmount().Amount,
		order.TotalAmount().Currency,
		order.OrderMessage(),
		nullString(order.PaymentID().String()),
		order.OrderChannel(),
		itemsJSON,
		order.CreatedAt(),
		order.LastModifiedAt(),
		nullTime(order.CompletedAt()),
	)
	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("order %s already exists: %w", order.ID(), insertErr)
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}

	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the mutable columns and stages the transition's events.
func (r *PostgresRepository) Update(ctx context.Context, order *domain.Order, events []OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE orders
	          SET status = $2, payment_id = $3, updated_at = $4, completed_at = $5
	          WHERE id = $1`

	result, err := tx.ExecContext(ctx, query,
		order.ID().String(),
		string(order.Status()),
		nullString(order.PaymentID().String()),
		order.LastModifiedAt(),
		nullTime(order.CompletedAt()),
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}
	return tx.Commit()
}

const orderColumns = `id, customer_id, status, total_amount, currency, order_message, payment_id, order_channel, items, created_at, updated_at, completed_at`

func (r *PostgresRepository) FindByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (r *PostgresRepository) FindByCustomerID(ctx context.Context, customerID domain.CustomerID) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, customerID.String())
	if err != nil {
		return nil, fmt.Errorf("query orders by customer id: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

func (r *PostgresRepository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, aggregate_id, event_type, payload, created_at
	          FROM order_outbox WHERE processed_at IS NULL ORDER BY id LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unprocessed events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var event OutboxEvent
		if err := rows.Scan(&event.ID, &event.AggregateID, &event.EventType, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

func (r *PostgresRepository) MarkEventAsProcessed(ctx context.Context, eventID int64) error {
	query := `UPDATE order_outbox SET processed_at = NOW() WHERE id = $1 AND processed_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, eventID); err != nil {
		return fmt.Errorf("mark event processed: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		id, customerID, status, currency string
		totalAmount                      decimal.Decimal
		orderMessage, orderChannel       string
		paymentID                        sql.NullString
		itemsJSON                        []byte
		createdAt, updatedAt             time.Time
		completedAt                      sql.NullTime
	)

	err := row.Scan(&id, &customerID, &status, &totalAmount, &currency, &orderMessage,
		&paymentID, &orderChannel, &itemsJSON, &createdAt, &updatedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	var records []orderItemRecord
	if err := json.Unmarshal(itemsJSON, &records); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}

	items := make([]*domain.OrderItem, 0, len(records))
	for _, rec := range records {
		unitPrice, err := decimal.NewFromString(rec.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("parse unit price %q: %w", rec.UnitPrice, err)
		}
		item, err := domain.NewOrderItem(
			domain.OrderItemID(rec.ID),
			domain.OrderID(id),
			domain.ProductID(rec.ProductID),
			rec.ProductName,
			domain.NewMoney(unitPrice, currency),
			rec.Quantity,
			domain.NewProductOptions(rec.Options),
		)
		if err != nil {
			return nil, fmt.Errorf("restore order item %s: %w", rec.ID, err)
		}
		items = append(items, item)
	}

	return domain.RestoreOrder(
		domain.OrderID(id),
		domain.CustomerID(customerID),
		items,
		domain.OrderStatus(status),
		domain.NewMoney(totalAmount, currency),
		orderMessage,
		domain.PaymentID(paymentID.String),
		orderChannel,
		createdAt,
		updatedAt,
		completedAt.Time,
		r.clock,
	), nil
}

func marshalItems(items []*domain.OrderItem) ([]byte, error) {
	records := make([]orderItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, orderItemRecord{
			ID:          item.ID().String(),
			ProductID:   item.ProductID().String(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice().Amount.String(),
			Quantity:    item.Quantity(),
			ItemAmount:  item.ItemAmount().Amount.String(),
			Options:     item.Options().Values(),
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order items: %w", err)
	}
	return data, nil
}

func insertOutboxEvents(ctx context.Context, tx *sql.Tx, events []OutboxEvent) error {
	for _, event := range events {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_outbox (aggregate_id, event_type, payload, created_at) VALUES ($1, $2, $3, NOW())`,
			event.AggregateID, event.EventType, event.Payload)
		if err != nil {
			return fmt.Errorf("insert outbox event %s: %w", event.EventType, err)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
