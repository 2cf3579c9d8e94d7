// Package seed fills the database with randomized but plausible test data:
// staff users, a fixed product catalogue, and customers with order and
// contact histories spread over the past two years.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"crm-service/internal/domain/contact"
	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/order"
	"crm-service/internal/domain/product"
	"crm-service/internal/domain/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Options controls the generated volume.
type Options struct {
	// Customers is how many customers to create.
	Customers int

	// PriceDrift varies each order item's unit price up to 10% around the
	// product's base price, simulating discounts and old price lists.
	PriceDrift bool
}

var DefaultOptions = Options{Customers: 30, PriceDrift: true}

type Seeder struct {
	pool   *pgxpool.Pool
	rng    *rand.Rand
	logger *zap.Logger
	opts   Options
}

// New builds a seeder. The injected rng makes the generated data
// reproducible for a fixed seed.
func New(pool *pgxpool.Pool, rng *rand.Rand, logger *zap.Logger, opts Options) *Seeder {
	if opts.Customers <= 0 {
		opts.Customers = DefaultOptions.Customers
	}
	return &Seeder{pool: pool, rng: rng, logger: logger, opts: opts}
}

// Run wipes the existing data and inserts a fresh fixture set inside a
// single transaction.
func (s *Seeder) Run(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		TRUNCATE contacts, order_items, orders, products, customers, users
		RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	users, err := s.insertUsers(ctx, tx)
	if err != nil {
		return err
	}
	products, err := s.insertProducts(ctx, tx)
	if err != nil {
		return err
	}
	customers, err := s.insertCustomers(ctx, tx)
	if err != nil {
		return err
	}
	orderCount, err := s.insertOrders(ctx, tx, customers, products)
	if err != nil {
		return err
	}
	contactCount, err := s.insertContacts(ctx, tx, customers, users)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	s.logger.Info("database seeded",
		zap.Int("users", len(users)),
		zap.Int("products", len(products)),
		zap.Int("customers", len(customers)),
		zap.Int("orders", orderCount),
		zap.Int("contacts", contactCount),
	)
	return nil
}

// Users is the fixed staff list. All accounts share the development
// password "password".
func Users() []user.User {
	names := []struct {
		name, email, role string
	}{
		{"S. König", "s.koenig@example.com", user.RoleTeacher},
		{"L. Graf", "l.graf@example.com", user.RoleStudent},
		{"M. Müller", "m.mueller@example.com", user.RoleStudent},
		{"A. Schmidt", "a.schmidt@example.com", user.RoleStudent},
	}

	out := make([]user.User, 0, len(names))
	for _, n := range names {
		u := user.User{Name: n.name, Role: n.role}
		u.Email.String, u.Email.Valid = n.email, true
		if hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost); err == nil {
			u.PasswordHash.String, u.PasswordHash.Valid = string(hash), true
		}
		out = append(out, u)
	}
	return out
}

// Products is the fixed catalogue.
func Products() []product.Product {
	rows := []struct {
		sku, name, price string
	}{
		{"PROD-001", "Product Alpha", "29.99"},
		{"PROD-002", "Product Beta", "59.99"},
		{"PROD-003", "Product Gamma", "99.99"},
		{"PROD-004", "Product Delta", "149.99"},
		{"PROD-005", "Product Epsilon", "199.99"},
		{"SERV-001", "Service Standard", "79.00"},
		{"SERV-002", "Service Premium", "159.00"},
		{"SOFT-001", "Software License Basic", "49.00"},
		{"SOFT-002", "Software License Pro", "129.00"},
		{"CONS-001", "Consulting Hour", "89.00"},
	}

	out := make([]product.Product, 0, len(rows))
	for _, r := range rows {
		p := product.Product{Name: r.name, BasePrice: decimal.RequireFromString(r.price)}
		p.SKU.String, p.SKU.Valid = r.sku, true
		out = append(out, p)
	}
	return out
}

var (
	firstNames = []string{
		"Anna", "Max", "Sophie", "Lukas", "Emma", "Felix", "Laura", "Jonas",
		"Marie", "Paul", "Lena", "David", "Julia", "Michael", "Sarah",
	}
	lastNames = []string{
		"Berger", "Huber", "Wagner", "Müller", "Schmidt", "Schneider", "Fischer",
		"Weber", "Meyer", "Bauer", "Becker", "Hoffmann", "Schulz", "Koch", "Richter",
	}
	subjects = []string{
		"Product inquiry", "Support request", "Consultation", "Complaint",
		"Quote requested", "Service feedback", "Technical question",
		"Contract renewal", "Onboarding call", "Follow-up",
	}
	noteEndings = []string{
		"Customer was very satisfied.",
		"Further follow-up required.",
		"A quote was prepared.",
		"Customer is interested in more products.",
		"Technical issue was resolved.",
		"Appointment scheduled for next week.",
	}
)

// Customers generates n random customers with indexed unique emails.
func Customers(rng *rand.Rand, n int, now time.Time) []customer.Customer {
	out := make([]customer.Customer, 0, n)
	for i := 0; i < n; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]

		c := customer.Customer{
			FirstName: first,
			LastName:  last,
			CreatedAt: now.AddDate(0, 0, -(1 + rng.Intn(730))),
		}
		c.Email.String = fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i)
		c.Email.Valid = true
		c.Phone.String = fmt.Sprintf("+43 %d %d", 600+rng.Intn(100), 100000+rng.Intn(900000))
		c.Phone.Valid = true
		out = append(out, c)
	}
	return out
}

// UnitPrice derives the frozen per-item price from the product's base
// price. With drift enabled it picks a factor in [0.9, 1.1] in basis
// point steps so the arithmetic stays exact.
func UnitPrice(rng *rand.Rand, base decimal.Decimal, drift bool) decimal.Decimal {
	if !drift {
		return base
	}
	bps := int64(9000 + rng.Intn(2001))
	return base.Mul(decimal.New(bps, -4)).Round(2)
}

func (s *Seeder) insertUsers(ctx context.Context, tx pgx.Tx) ([]user.User, error) {
	users := Users()
	for i := range users {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (name, email, password_hash, role)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, users[i].Name, users[i].Email, users[i].PasswordHash, users[i].Role).Scan(&users[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to seed user %q: %w", users[i].Name, err)
		}
	}
	return users, nil
}

func (s *Seeder) insertProducts(ctx context.Context, tx pgx.Tx) ([]product.Product, error) {
	products := Products()
	for i := range products {
		err := tx.QueryRow(ctx, `
			INSERT INTO products (sku, name, base_price)
			VALUES ($1, $2, $3)
			RETURNING id
		`, products[i].SKU, products[i].Name, products[i].BasePrice.StringFixed(2)).Scan(&products[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to seed product %q: %w", products[i].Name, err)
		}
	}
	return products, nil
}

func (s *Seeder) insertCustomers(ctx context.Context, tx pgx.Tx) ([]customer.Customer, error) {
	customers := Customers(s.rng, s.opts.Customers, time.Now().UTC())
	for i := range customers {
		err := tx.QueryRow(ctx, `
			INSERT INTO customers (first_name, last_name, email, phone, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, customers[i].FirstName, customers[i].LastName, customers[i].Email,
			customers[i].Phone, customers[i].CreatedAt).Scan(&customers[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to seed customer %q: %w", customers[i].FullName(), err)
		}
	}
	return customers, nil
}

func (s *Seeder) insertOrders(ctx context.Context, tx pgx.Tx, customers []customer.Customer, products []product.Product) (int, error) {
	now := time.Now().UTC()
	count := 0
	for _, c := range customers {
		numOrders := 1 + s.rng.Intn(5)
		for i := 0; i < numOrders; i++ {
			orderDate := now.AddDate(0, 0, -(1 + s.rng.Intn(365)))
			status := order.Statuses[s.rng.Intn(len(order.Statuses))]

			numItems := 1 + s.rng.Intn(4)
			items := make([]order.Item, 0, numItems)
			total := decimal.Zero
			for j := 0; j < numItems; j++ {
				p := products[s.rng.Intn(len(products))]
				item := order.Item{
					ProductID: p.ID,
					Quantity:  1 + s.rng.Intn(5),
					UnitPrice: UnitPrice(s.rng, p.BasePrice, s.opts.PriceDrift),
				}
				items = append(items, item)
				total = total.Add(item.Subtotal())
			}

			var orderID int64
			err := tx.QueryRow(ctx, `
				INSERT INTO orders (customer_id, order_date, status, total_amount)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, c.ID, orderDate, status, total.Round(2).StringFixed(2)).Scan(&orderID)
			if err != nil {
				return 0, fmt.Errorf("failed to seed order: %w", err)
			}
			for _, item := range items {
				if _, err := tx.Exec(ctx, `
					INSERT INTO order_items (order_id, product_id, quantity, unit_price)
					VALUES ($1, $2, $3, $4)
				`, orderID, item.ProductID, item.Quantity, item.UnitPrice.StringFixed(2)); err != nil {
					return 0, fmt.Errorf("failed to seed order item: %w", err)
				}
			}
			count++
		}
	}
	return count, nil
}

func (s *Seeder) insertContacts(ctx context.Context, tx pgx.Tx, customers []customer.Customer, users []user.User) (int, error) {
	now := time.Now().UTC()
	count := 0
	for _, c := range customers {
		numContacts := 2 + s.rng.Intn(7)
		for i := 0; i < numContacts; i++ {
			contactTime := now.AddDate(0, 0, -(1 + s.rng.Intn(365)))

			ct := contact.Contact{
				CustomerID:  c.ID,
				Channel:     contact.Channels[s.rng.Intn(len(contact.Channels))],
				ContactTime: contactTime,
			}
			// Every fifth contact or so goes unattributed.
			if s.rng.Float64() > 0.2 {
				ct.UserID.Int64 = users[s.rng.Intn(len(users))].ID
				ct.UserID.Valid = true
			}
			ct.Subject.String = subjects[s.rng.Intn(len(subjects))]
			ct.Subject.Valid = true
			ct.Notes.String = fmt.Sprintf("Contact on %s. %s",
				contactTime.Format("02.01.2006"), noteEndings[s.rng.Intn(len(noteEndings))])
			ct.Notes.Valid = true

			if _, err := tx.Exec(ctx, `
				INSERT INTO contacts (customer_id, user_id, channel, subject, notes, contact_time)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, ct.CustomerID, ct.UserID, ct.Channel, ct.Subject, ct.Notes, ct.ContactTime); err != nil {
				return 0, fmt.Errorf("failed to seed contact: %w", err)
			}
			count++
		}
	}
	return count, nil
}
