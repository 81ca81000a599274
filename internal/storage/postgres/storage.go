package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mkraev/loanledger/internal/domain/allocation"
	"github.com/mkraev/loanledger/internal/domain/amortization"
	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/domain/repository"
)

const uniqueViolation = "23505"

// pgxPool is the subset of pgxpool.Pool the storage uses; it lets tests
// substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type customerRepository struct {
	storage *Storage
}

type loanRepository struct {
	storage *Storage
}

type scheduleRepository struct {
	storage *Storage
}

type paymentRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) Loans() repository.LoanRepository {
	return &loanRepository{storage: s}
}

func (s *Storage) Schedules() repository.ScheduleRepository {
	return &scheduleRepository{storage: s}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            username TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            full_name TEXT NOT NULL,
            role TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'active',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS customers (
            id BIGSERIAL PRIMARY KEY,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            phone TEXT NOT NULL,
            address TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL DEFAULT '',
            date_of_birth DATE,
            id_number TEXT UNIQUE NOT NULL,
            status TEXT NOT NULL DEFAULT 'active',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS loans (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            principal NUMERIC(15,2) NOT NULL,
            interest_rate NUMERIC(5,2) NOT NULL,
            payment_frequency TEXT NOT NULL,
            term_months INT NOT NULL,
            total_installments INT NOT NULL DEFAULT 0,
            installment_amount NUMERIC(15,2) NOT NULL DEFAULT 0,
            total_amount NUMERIC(15,2) NOT NULL DEFAULT 0,
            disbursement_date DATE,
            first_payment_date DATE,
            last_payment_date DATE,
            status TEXT NOT NULL DEFAULT 'pending',
            approved_by BIGINT REFERENCES users(id),
            approved_at TIMESTAMPTZ,
            disbursed_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS payment_schedule (
            id BIGSERIAL PRIMARY KEY,
            loan_id BIGINT NOT NULL REFERENCES loans(id),
            installment_number INT NOT NULL,
            due_date DATE NOT NULL,
            principal_amount NUMERIC(15,2) NOT NULL,
            interest_amount NUMERIC(15,2) NOT NULL,
            total_amount NUMERIC(15,2) NOT NULL,
            outstanding_balance NUMERIC(15,2) NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            paid_date DATE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (loan_id, installment_number)
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id BIGSERIAL PRIMARY KEY,
            loan_id BIGINT NOT NULL REFERENCES loans(id),
            schedule_id BIGINT REFERENCES payment_schedule(id),
            payment_date DATE NOT NULL,
            payment_amount NUMERIC(15,2) NOT NULL,
            principal_paid NUMERIC(15,2) NOT NULL,
            interest_paid NUMERIC(15,2) NOT NULL,
            late_fee NUMERIC(15,2) NOT NULL DEFAULT 0,
            payment_method TEXT NOT NULL,
            transaction_reference TEXT,
            notes TEXT,
            received_by BIGINT REFERENCES users(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_loan_reference
            ON payments(loan_id, transaction_reference)
            WHERE transaction_reference IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_loans_customer ON loans(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_loan ON payment_schedule(loan_id, installment_number)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_loan ON payments(loan_id, payment_date DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// --- UserRepository implementation ---

const userColumns = `id, username, password_hash, full_name, role, status, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, username, passwordHash, fullName string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (username, password_hash, full_name, role)
                   VALUES ($1, $2, $3, $4)
                   RETURNING ` + userColumns
	u, err := scanUser(r.storage.pool.QueryRow(ctx, query, username, passwordHash, fullName, role))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) SetStatus(ctx context.Context, id int64, status model.UserStatus) error {
	const query = `UPDATE users SET status=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- CustomerRepository implementation ---

const customerColumns = `id, first_name, last_name, phone, address, city, date_of_birth, id_number, status, created_at, updated_at`

func scanCustomer(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Address, &c.City, &c.DateOfBirth, &c.IDNumber, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	const query = `INSERT INTO customers (first_name, last_name, phone, address, city, date_of_birth, id_number, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING ` + customerColumns
	c, err := scanCustomer(r.storage.pool.QueryRow(ctx, query,
		customer.FirstName, customer.LastName, customer.Phone, customer.Address,
		customer.City, customer.DateOfBirth, customer.IDNumber, customer.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	return scanCustomer(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *customerRepository) List(ctx context.Context) ([]model.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Address, &c.City, &c.DateOfBirth, &c.IDNumber, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	const query = `UPDATE customers
                   SET first_name=$1, last_name=$2, phone=$3, address=$4, city=$5,
                       date_of_birth=$6, id_number=$7, status=$8, updated_at=NOW()
                   WHERE id=$9
                   RETURNING ` + customerColumns
	c, err := scanCustomer(r.storage.pool.QueryRow(ctx, query,
		customer.FirstName, customer.LastName, customer.Phone, customer.Address,
		customer.City, customer.DateOfBirth, customer.IDNumber, customer.Status, customer.ID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return c, nil
}

// Delete removes the customer and every owned loan, schedule item and
// payment as one atomic operation. Ownership cascades are explicit here
// rather than delegated to store-level ON DELETE rules.
func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		statements := []string{
			`DELETE FROM payments WHERE loan_id IN (SELECT id FROM loans WHERE customer_id=$1)`,
			`DELETE FROM payment_schedule WHERE loan_id IN (SELECT id FROM loans WHERE customer_id=$1)`,
			`DELETE FROM loans WHERE customer_id=$1`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return err
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return nil
	})
}

// --- LoanRepository implementation ---

const loanColumns = `id, customer_id, principal, interest_rate, payment_frequency, term_months,
            total_installments, installment_amount, total_amount,
            disbursement_date, first_payment_date, last_payment_date,
            status, approved_by, approved_at, disbursed_at, created_at, updated_at`

func scanLoan(row pgx.Row) (*model.Loan, error) {
	var l model.Loan
	err := row.Scan(&l.ID, &l.CustomerID, &l.Principal, &l.InterestRate, &l.Frequency, &l.TermMonths,
		&l.TotalInstallments, &l.InstallmentAmount, &l.TotalAmount,
		&l.DisbursementDate, &l.FirstPaymentDate, &l.LastPaymentDate,
		&l.Status, &l.ApprovedBy, &l.ApprovedAt, &l.DisbursedAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *loanRepository) Create(ctx context.Context, loan *model.Loan) (*model.Loan, error) {
	const query = `INSERT INTO loans (customer_id, principal, interest_rate, payment_frequency, term_months, status)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING ` + loanColumns
	return scanLoan(r.storage.pool.QueryRow(ctx, query,
		loan.CustomerID, loan.Principal, loan.InterestRate, loan.Frequency, loan.TermMonths, loan.Status))
}

func (r *loanRepository) GetByID(ctx context.Context, id int64) (*model.Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM loans WHERE id=$1`
	return scanLoan(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *loanRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM loans WHERE customer_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Loan
	for rows.Next() {
		var l model.Loan
		if err := rows.Scan(&l.ID, &l.CustomerID, &l.Principal, &l.InterestRate, &l.Frequency, &l.TermMonths,
			&l.TotalInstallments, &l.InstallmentAmount, &l.TotalAmount,
			&l.DisbursementDate, &l.FirstPaymentDate, &l.LastPaymentDate,
			&l.Status, &l.ApprovedBy, &l.ApprovedAt, &l.DisbursedAt, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// lockLoan reads the loan inside the transaction with a row lock so all
// mutations against one loan serialize.
func lockLoan(ctx context.Context, tx pgx.Tx, loanID int64) (*model.Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM loans WHERE id=$1 FOR UPDATE`
	return scanLoan(tx.QueryRow(ctx, query, loanID))
}

func (r *loanRepository) Approve(ctx context.Context, loanID, approvedBy int64, at time.Time) (*model.Loan, error) {
	var approved *model.Loan
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		loan, err := lockLoan(ctx, tx, loanID)
		if err != nil {
			return err
		}
		if !loan.Status.CanTransitionTo(model.LoanStatusApproved) {
			return fmt.Errorf("%w: %s -> approved", domainErrors.ErrInvalidTransition, loan.Status)
		}

		const update = `UPDATE loans
                        SET status=$1, approved_by=$2, approved_at=$3, updated_at=NOW()
                        WHERE id=$4
                        RETURNING ` + loanColumns
		approved, err = scanLoan(tx.QueryRow(ctx, update, model.LoanStatusApproved, approvedBy, at, loanID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// Disburse computes the amortization schedule from the locked loan's
// terms and persists it atomically with the approved -> disbursed
// transition: either the loan flips and the full schedule exists, or
// nothing changed.
func (r *loanRepository) Disburse(ctx context.Context, loanID int64, at time.Time) (*model.Loan, error) {
	var disbursed *model.Loan
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		loan, err := lockLoan(ctx, tx, loanID)
		if err != nil {
			return err
		}
		if !loan.Status.CanTransitionTo(model.LoanStatusDisbursed) {
			return fmt.Errorf("%w: %s -> disbursed", domainErrors.ErrInvalidTransition, loan.Status)
		}

		disbursementDate := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
		schedule, err := amortization.Build(loan.Principal, loan.InterestRate, loan.Frequency, loan.TermMonths, disbursementDate)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO payment_schedule
                            (loan_id, installment_number, due_date, principal_amount, interest_amount, total_amount, outstanding_balance)
                            VALUES ($1, $2, $3, $4, $5, $6, $7)`
		for _, inst := range schedule.Installments {
			if _, err := tx.Exec(ctx, insertItem, loanID, inst.Number, inst.DueDate,
				inst.Principal, inst.Interest, inst.Total, inst.OutstandingBalance); err != nil {
				return err
			}
		}

		const update = `UPDATE loans
                        SET status=$1, total_installments=$2, installment_amount=$3, total_amount=$4,
                            disbursement_date=$5, first_payment_date=$6, last_payment_date=$7,
                            disbursed_at=$8, updated_at=NOW()
                        WHERE id=$9
                        RETURNING ` + loanColumns
		disbursed, err = scanLoan(tx.QueryRow(ctx, update,
			model.LoanStatusDisbursed, len(schedule.Installments), schedule.InstallmentAmount, schedule.TotalAmount,
			disbursementDate, schedule.FirstPaymentDate, schedule.LastPaymentDate, at, loanID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return disbursed, nil
}

func (r *loanRepository) SetStatus(ctx context.Context, loanID int64, next model.LoanStatus, at time.Time) (*model.Loan, error) {
	var updated *model.Loan
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		loan, err := lockLoan(ctx, tx, loanID)
		if err != nil {
			return err
		}
		if !loan.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, loan.Status, next)
		}

		const update = `UPDATE loans SET status=$1, updated_at=$2 WHERE id=$3 RETURNING ` + loanColumns
		updated, err = scanLoan(tx.QueryRow(ctx, update, next, at, loanID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// --- ScheduleRepository implementation ---

const scheduleColumns = `id, loan_id, installment_number, due_date, principal_amount, interest_amount,
            total_amount, outstanding_balance, status, paid_date, created_at`

func scanScheduleItems(rows pgx.Rows) ([]model.ScheduleItem, error) {
	defer rows.Close()
	var result []model.ScheduleItem
	for rows.Next() {
		var item model.ScheduleItem
		if err := rows.Scan(&item.ID, &item.LoanID, &item.InstallmentNumber, &item.DueDate,
			&item.PrincipalAmount, &item.InterestAmount, &item.TotalAmount, &item.OutstandingBalance,
			&item.Status, &item.PaidDate, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *scheduleRepository) ListByLoan(ctx context.Context, loanID int64) ([]model.ScheduleItem, error) {
	const query = `SELECT ` + scheduleColumns + ` FROM payment_schedule WHERE loan_id=$1 ORDER BY installment_number`
	rows, err := r.storage.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	return scanScheduleItems(rows)
}

func (r *scheduleRepository) Waive(ctx context.Context, loanID int64, installmentNumber int, at time.Time) (*model.ScheduleItem, error) {
	var waived *model.ScheduleItem
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		loan, err := lockLoan(ctx, tx, loanID)
		if err != nil {
			return err
		}

		const query = `SELECT ` + scheduleColumns + ` FROM payment_schedule
                       WHERE loan_id=$1 AND installment_number=$2`
		var item model.ScheduleItem
		err = tx.QueryRow(ctx, query, loanID, installmentNumber).Scan(
			&item.ID, &item.LoanID, &item.InstallmentNumber, &item.DueDate,
			&item.PrincipalAmount, &item.InterestAmount, &item.TotalAmount, &item.OutstandingBalance,
			&item.Status, &item.PaidDate, &item.CreatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if item.Status.Settled() {
			return fmt.Errorf("%w: installment %d already settled", domainErrors.ErrValidation, installmentNumber)
		}

		const update = `UPDATE payment_schedule SET status=$1 WHERE id=$2 RETURNING ` + scheduleColumns
		err = tx.QueryRow(ctx, update, model.ScheduleStatusWaived, item.ID).Scan(
			&item.ID, &item.LoanID, &item.InstallmentNumber, &item.DueDate,
			&item.PrincipalAmount, &item.InterestAmount, &item.TotalAmount, &item.OutstandingBalance,
			&item.Status, &item.PaidDate, &item.CreatedAt)
		if err != nil {
			return err
		}
		waived = &item

		if loan.Status == model.LoanStatusDisbursed {
			return settleLoanIfComplete(ctx, tx, loanID, at)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return waived, nil
}

func (r *scheduleRepository) MarkOverdueBatch(ctx context.Context, asOf time.Time, missedAfter time.Duration, limit int) (int, error) {
	missedBefore := asOf.Add(-missedAfter)
	var changed int
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectQuery = `SELECT id, status, due_date FROM payment_schedule
                             WHERE status IN ('pending', 'late') AND due_date < $1
                             ORDER BY due_date
                             LIMIT $2
                             FOR UPDATE SKIP LOCKED`
		rows, err := tx.Query(ctx, selectQuery, asOf, limit)
		if err != nil {
			return err
		}

		type pastDue struct {
			id      int64
			status  model.ScheduleStatus
			dueDate time.Time
		}
		var items []pastDue
		for rows.Next() {
			var item pastDue
			if err := rows.Scan(&item.id, &item.status, &item.dueDate); err != nil {
				rows.Close()
				return err
			}
			items = append(items, item)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, item := range items {
			next := model.ScheduleStatusLate
			if item.dueDate.Before(missedBefore) {
				next = model.ScheduleStatusMissed
			}
			if next == item.status {
				continue
			}
			if _, err := tx.Exec(ctx, `UPDATE payment_schedule SET status=$1 WHERE id=$2`, next, item.id); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// --- PaymentRepository implementation ---

const paymentColumns = `id, loan_id, schedule_id, payment_date, payment_amount, principal_paid,
            interest_paid, late_fee, payment_method, transaction_reference, notes, received_by, created_at`

// settleLoanIfComplete flips a disbursed loan to paid once every
// installment is paid or waived. Runs inside the caller's transaction
// while the loan row is locked.
func settleLoanIfComplete(ctx context.Context, tx pgx.Tx, loanID int64, at time.Time) error {
	const openCount = `SELECT COUNT(*) FROM payment_schedule
                       WHERE loan_id=$1 AND status NOT IN ('paid', 'waived')`
	var open int
	if err := tx.QueryRow(ctx, openCount, loanID).Scan(&open); err != nil {
		return err
	}
	if open > 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `UPDATE loans SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4`,
		model.LoanStatusPaid, at, loanID, model.LoanStatusDisbursed)
	return err
}

// Post applies a payment inside one transaction: the loan row is locked,
// open installments and their previously applied amounts are loaded, the
// pure allocator splits the cash, and the resulting payment rows and
// status updates are written together.
func (r *paymentRepository) Post(ctx context.Context, req repository.PostPaymentRequest) (*repository.PostPaymentResult, error) {
	var result *repository.PostPaymentResult
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		loan, err := lockLoan(ctx, tx, req.LoanID)
		if err != nil {
			return err
		}
		if loan.Status != model.LoanStatusDisbursed {
			return fmt.Errorf("%w: loan is %s, payments require disbursed", domainErrors.ErrValidation, loan.Status)
		}

		if req.TransactionReference != nil {
			const dupQuery = `SELECT EXISTS(SELECT 1 FROM payments WHERE loan_id=$1 AND transaction_reference=$2)`
			var exists bool
			if err := tx.QueryRow(ctx, dupQuery, req.LoanID, *req.TransactionReference).Scan(&exists); err != nil {
				return err
			}
			if exists {
				return domainErrors.ErrDuplicatePayment
			}
		}

		open, err := loadOpenItems(ctx, tx, req.LoanID)
		if err != nil {
			return err
		}
		if req.ScheduleID != nil {
			idx := -1
			for i, item := range open {
				if item.Item.ID == *req.ScheduleID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return fmt.Errorf("%w: schedule item %d is not open for payment", domainErrors.ErrValidation, *req.ScheduleID)
			}
			open = open[idx:]
		}

		entries, err := allocation.Apply(open, req.Amount, req.Date, req.LateFee)
		if err != nil {
			return err
		}

		result = &repository.PostPaymentResult{}
		const insertPayment = `INSERT INTO payments
                    (loan_id, schedule_id, payment_date, payment_amount, principal_paid, interest_paid, late_fee,
                     payment_method, transaction_reference, notes, received_by)
                    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                    RETURNING ` + paymentColumns
		for i, entry := range entries {
			// The caller's reference goes on the first row only so the
			// per-loan uniqueness guard tolerates cascading rows.
			var ref, notes *string
			if i == 0 {
				ref = req.TransactionReference
				notes = req.Notes
			}

			var p model.Payment
			err := tx.QueryRow(ctx, insertPayment,
				req.LoanID, entry.ScheduleID, req.Date, entry.Amount(), entry.Principal, entry.Interest, entry.LateFee,
				req.Method, ref, notes, req.ReceivedBy).Scan(
				&p.ID, &p.LoanID, &p.ScheduleID, &p.PaymentDate, &p.Amount, &p.PrincipalPaid,
				&p.InterestPaid, &p.LateFee, &p.Method, &p.TransactionReference, &p.Notes, &p.ReceivedBy, &p.CreatedAt)
			if err != nil {
				if isUniqueViolation(err) {
					return domainErrors.ErrDuplicatePayment
				}
				return err
			}
			result.Payments = append(result.Payments, p)

			var paidDate *time.Time
			if entry.Settled {
				paidDate = &req.Date
			}
			const updateItem = `UPDATE payment_schedule SET status=$1, paid_date=COALESCE($2, paid_date)
                                WHERE id=$3 RETURNING ` + scheduleColumns
			var item model.ScheduleItem
			err = tx.QueryRow(ctx, updateItem, entry.NewStatus, paidDate, entry.ScheduleID).Scan(
				&item.ID, &item.LoanID, &item.InstallmentNumber, &item.DueDate,
				&item.PrincipalAmount, &item.InterestAmount, &item.TotalAmount, &item.OutstandingBalance,
				&item.Status, &item.PaidDate, &item.CreatedAt)
			if err != nil {
				return err
			}
			result.Items = append(result.Items, item)
		}

		if err := settleLoanIfComplete(ctx, tx, req.LoanID, req.Date); err != nil {
			return err
		}

		const statusQuery = `SELECT status FROM loans WHERE id=$1`
		return tx.QueryRow(ctx, statusQuery, req.LoanID).Scan(&result.LoanStatus)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// loadOpenItems returns unsettled installments in order together with
// the amounts earlier payments already applied to each.
func loadOpenItems(ctx context.Context, tx pgx.Tx, loanID int64) ([]allocation.OpenItem, error) {
	const query = `SELECT s.id, s.loan_id, s.installment_number, s.due_date,
                          s.principal_amount, s.interest_amount, s.total_amount, s.outstanding_balance,
                          s.status, s.paid_date, s.created_at,
                          COALESCE(SUM(p.interest_paid), 0), COALESCE(SUM(p.principal_paid), 0), COALESCE(SUM(p.late_fee), 0)
                   FROM payment_schedule s
                   LEFT JOIN payments p ON p.schedule_id = s.id
                   WHERE s.loan_id=$1 AND s.status NOT IN ('paid', 'waived')
                   GROUP BY s.id
                   ORDER BY s.installment_number`
	rows, err := tx.Query(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []allocation.OpenItem
	for rows.Next() {
		var open allocation.OpenItem
		var interestPaid, principalPaid, lateFeePaid decimal.Decimal
		if err := rows.Scan(&open.Item.ID, &open.Item.LoanID, &open.Item.InstallmentNumber, &open.Item.DueDate,
			&open.Item.PrincipalAmount, &open.Item.InterestAmount, &open.Item.TotalAmount, &open.Item.OutstandingBalance,
			&open.Item.Status, &open.Item.PaidDate, &open.Item.CreatedAt,
			&interestPaid, &principalPaid, &lateFeePaid); err != nil {
			return nil, err
		}
		open.InterestPaid = interestPaid
		open.PrincipalPaid = principalPaid
		open.LateFeePaid = lateFeePaid
		result = append(result, open)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *paymentRepository) ListByLoan(ctx context.Context, loanID int64) ([]model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE loan_id=$1 ORDER BY payment_date DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.LoanID, &p.ScheduleID, &p.PaymentDate, &p.Amount, &p.PrincipalPaid,
			&p.InterestPaid, &p.LateFee, &p.Method, &p.TransactionReference, &p.Notes, &p.ReceivedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
