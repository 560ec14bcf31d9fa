package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/gildedline/atelier/internal/domain/errors"
	"github.com/gildedline/atelier/internal/domain/model"
	"github.com/gildedline/atelier/internal/domain/repository"
)

const uniqueViolation = "23505"

// pgxPool is the subset of pgxpool.Pool the storage uses. Kept as an
// interface so tests can substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// querier is satisfied by both the pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var newPgxPool = func(ctx context.Context, dsn string) (pgxPool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return pool, nil
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type designRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	pool, err := newPgxPool(ctx, dsn)
	if err != nil {
		return nil, err
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

func (s *Storage) DesignRequests() repository.DesignRequestRepository {
	return &designRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'customer',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS design_requests (
            id UUID PRIMARY KEY,
            owner_id BIGINT NOT NULL REFERENCES users(id),
            project_title TEXT NOT NULL,
            project_description TEXT NOT NULL,
            project_type TEXT NOT NULL,
            priority TEXT NOT NULL,
            complexity TEXT NOT NULL,
            status TEXT NOT NULL,
            customer_first_name TEXT NOT NULL,
            customer_last_name TEXT NOT NULL,
            customer_email TEXT NOT NULL,
            customer_phone TEXT NOT NULL DEFAULT '',
            budget_min DOUBLE PRECISION,
            budget_max DOUBLE PRECISION,
            designer_assigned BIGINT,
            project_manager BIGINT,
            deposit_paid BOOLEAN NOT NULL DEFAULT FALSE,
            final_payment_paid BOOLEAN NOT NULL DEFAULT FALSE,
            total_paid DOUBLE PRECISION NOT NULL DEFAULT 0,
            required_by TIMESTAMPTZ,
            urgency TEXT NOT NULL DEFAULT '',
            actual_completion_date TIMESTAMPTZ,
            tags TEXT[] NOT NULL DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS quotes (
            id UUID PRIMARY KEY,
            request_id UUID NOT NULL REFERENCES design_requests(id),
            amount DOUBLE PRECISION NOT NULL,
            currency TEXT NOT NULL,
            description TEXT NOT NULL,
            breakdown JSONB NOT NULL DEFAULT '[]',
            estimated_delivery_days INT NOT NULL DEFAULT 0,
            revisions_included INT NOT NULL DEFAULT 0,
            valid_until TIMESTAMPTZ NOT NULL,
            status TEXT NOT NULL,
            created_by BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS communication_entries (
            id BIGSERIAL PRIMARY KEY,
            request_id UUID NOT NULL REFERENCES design_requests(id),
            entry_type TEXT NOT NULL,
            participant BIGINT NOT NULL,
            content TEXT NOT NULL,
            is_internal BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS milestones (
            id BIGSERIAL PRIMARY KEY,
            request_id UUID NOT NULL REFERENCES design_requests(id),
            position INT NOT NULL,
            name TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            completed_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id BIGSERIAL PRIMARY KEY,
            request_id UUID NOT NULL REFERENCES design_requests(id),
            amount DOUBLE PRECISION NOT NULL,
            kind TEXT NOT NULL,
            recorded_by BIGINT NOT NULL,
            recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		// at most one accepted quote per request, enforced by the database
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_quotes_one_accepted ON quotes(request_id) WHERE status='accepted'`,
		`CREATE INDEX IF NOT EXISTS idx_requests_owner ON design_requests(owner_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_request ON quotes(request_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_due ON quotes(valid_until) WHERE status='pending'`,
		`CREATE INDEX IF NOT EXISTS idx_entries_request ON communication_entries(request_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_milestones_request ON milestones(request_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_request ON payments(request_id, recorded_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash, role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	u.Role = role
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, created_at FROM users WHERE login=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, created_at FROM users WHERE id=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- DesignRequestRepository implementation ---

const requestColumns = `id, owner_id, project_title, project_description, project_type,
        priority, complexity, status,
        customer_first_name, customer_last_name, customer_email, customer_phone,
        budget_min, budget_max, designer_assigned, project_manager,
        deposit_paid, final_payment_paid, total_paid,
        required_by, urgency, actual_completion_date, tags, created_at, updated_at`

func scanRequest(row pgx.Row) (*model.DesignRequest, error) {
	var req model.DesignRequest
	err := row.Scan(
		&req.ID, &req.OwnerID, &req.ProjectTitle, &req.ProjectDescription, &req.ProjectType,
		&req.Priority, &req.Complexity, &req.Status,
		&req.Customer.FirstName, &req.Customer.LastName, &req.Customer.Email, &req.Customer.Phone,
		&req.Budget.Minimum, &req.Budget.Maximum, &req.DesignerAssigned, &req.ProjectManager,
		&req.Payment.DepositPaid, &req.Payment.FinalPaymentPaid, &req.Payment.TotalPaid,
		&req.Timeframe.RequiredBy, &req.Timeframe.Urgency, &req.ActualCompletionDate, &req.Tags, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *designRepository) Create(ctx context.Context, req *model.DesignRequest) (*model.DesignRequest, error) {
	const query = `INSERT INTO design_requests (
            id, owner_id, project_title, project_description, project_type,
            priority, complexity, status,
            customer_first_name, customer_last_name, customer_email, customer_phone,
            budget_min, budget_max, required_by, urgency, tags)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING created_at, updated_at`
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	err := r.storage.pool.QueryRow(ctx, query,
		req.ID, req.OwnerID, req.ProjectTitle, req.ProjectDescription, req.ProjectType,
		req.Priority, req.Complexity, req.Status,
		req.Customer.FirstName, req.Customer.LastName, req.Customer.Email, req.Customer.Phone,
		req.Budget.Minimum, req.Budget.Maximum, req.Timeframe.RequiredBy, req.Timeframe.Urgency, tags,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *designRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DesignRequest, error) {
	return getRequest(ctx, r.storage.pool, id, true)
}

func getRequest(ctx context.Context, q querier, id uuid.UUID, withLog bool) (*model.DesignRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM design_requests WHERE id=$1`
	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := loadQuotes(ctx, q, req); err != nil {
		return nil, err
	}
	if err := loadMilestones(ctx, q, req); err != nil {
		return nil, err
	}
	if withLog {
		if err := loadEntries(ctx, q, req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

const quoteColumns = `id, request_id, amount, currency, description, breakdown,
        estimated_delivery_days, revisions_included, valid_until, status, created_by, created_at`

func scanQuote(row pgx.Row) (*model.Quote, error) {
	var q model.Quote
	var breakdown []byte
	err := row.Scan(
		&q.ID, &q.RequestID, &q.Price.Amount, &q.Price.Currency, &q.Description, &breakdown,
		&q.EstimatedDeliveryDays, &q.RevisionsIncluded, &q.ValidUntil, &q.Status, &q.CreatedBy, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &q.Breakdown); err != nil {
			return nil, fmt.Errorf("decode breakdown: %w", err)
		}
	}
	return &q, nil
}

func loadQuotes(ctx context.Context, q querier, req *model.DesignRequest) error {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE request_id=$1 ORDER BY created_at, id`
	rows, err := q.Query(ctx, query, req.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return err
		}
		req.Quotes = append(req.Quotes, *quote)
	}
	return rows.Err()
}

func loadMilestones(ctx context.Context, q querier, req *model.DesignRequest) error {
	const query = `SELECT id, name, status, completed_at FROM milestones WHERE request_id=$1 ORDER BY position`
	rows, err := q.Query(ctx, query, req.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m model.Milestone
		if err := rows.Scan(&m.ID, &m.Name, &m.Status, &m.CompletedAt); err != nil {
			return err
		}
		req.Milestones = append(req.Milestones, m)
	}
	return rows.Err()
}

func loadEntries(ctx context.Context, q querier, req *model.DesignRequest) error {
	const query = `SELECT id, entry_type, participant, content, is_internal, created_at
                   FROM communication_entries WHERE request_id=$1 ORDER BY created_at, id`
	rows, err := q.Query(ctx, query, req.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e model.CommunicationEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Participant, &e.Content, &e.IsInternal, &e.CreatedAt); err != nil {
			return err
		}
		req.Log.Append(e)
	}
	return rows.Err()
}

func (r *designRepository) List(ctx context.Context, f repository.ListFilter) ([]model.DesignRequest, int, error) {
	var conditions []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if f.OwnerID != nil {
		add("owner_id=$%d", *f.OwnerID)
	}
	if f.Status != nil {
		add("status=$%d", *f.Status)
	}
	if f.ProjectType != nil {
		add("project_type=$%d", *f.ProjectType)
	}
	if f.Priority != nil {
		add("priority=$%d", *f.Priority)
	}
	if f.DesignerAssigned != nil {
		add("designer_assigned=$%d", *f.DesignerAssigned)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			`(project_title ILIKE $%d OR project_description ILIKE $%d
              OR customer_first_name ILIKE $%d OR customer_last_name ILIKE $%d
              OR customer_email ILIKE $%d
              OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $%d))`,
			n, n, n, n, n, n))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM design_requests` + where
	if err := r.storage.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	pageQuery := `SELECT ` + requestColumns + ` FROM design_requests` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.storage.pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.DesignRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// listings surface quote and progress projections, so children are
	// hydrated for the page; the log stays detail-view only
	for i := range result {
		if err := loadQuotes(ctx, r.storage.pool, &result[i]); err != nil {
			return nil, 0, err
		}
		if err := loadMilestones(ctx, r.storage.pool, &result[i]); err != nil {
			return nil, 0, err
		}
	}

	return result, total, nil
}

func (r *designRepository) Update(ctx context.Context, id uuid.UUID, patch repository.UpdatePatch, actor int64) (*model.DesignRequest, error) {
	var result *model.DesignRequest
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var current model.RequestStatus
		err := tx.QueryRow(ctx, `SELECT status FROM design_requests WHERE id=$1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		var sets []string
		var args []any
		set := func(column string, value any) {
			args = append(args, value)
			sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
		}

		if patch.ProjectTitle != nil {
			set("project_title", *patch.ProjectTitle)
		}
		if patch.ProjectDescription != nil {
			set("project_description", *patch.ProjectDescription)
		}
		if patch.ProjectType != nil {
			set("project_type", *patch.ProjectType)
		}
		if patch.Priority != nil {
			set("priority", *patch.Priority)
		}
		if patch.Complexity != nil {
			set("complexity", *patch.Complexity)
		}
		if patch.DesignerAssigned != nil {
			set("designer_assigned", *patch.DesignerAssigned)
		}
		if patch.ProjectManager != nil {
			set("project_manager", *patch.ProjectManager)
		}
		if patch.RequiredBy != nil {
			set("required_by", *patch.RequiredBy)
		}
		if patch.Urgency != nil {
			set("urgency", *patch.Urgency)
		}
		if patch.Tags != nil {
			set("tags", patch.Tags)
		}

		statusChanged := patch.Status != nil && *patch.Status != current
		if statusChanged {
			set("status", *patch.Status)
			if *patch.Status == model.StatusCompleted {
				sets = append(sets, "actual_completion_date=NOW()")
			}
		}

		if len(sets) > 0 {
			sets = append(sets, "updated_at=NOW()")
			args = append(args, id)
			query := fmt.Sprintf(`UPDATE design_requests SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return err
			}
		}

		if patch.Milestones != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM milestones WHERE request_id=$1`, id); err != nil {
				return err
			}
			for i, m := range patch.Milestones {
				status := m.Status
				if status == "" {
					status = model.MilestoneStatusPending
				}
				// a milestone arriving completed without a timestamp gets
				// stamped with the transaction clock
				if _, err := tx.Exec(ctx,
					`INSERT INTO milestones (request_id, position, name, status, completed_at)
                     VALUES ($1,$2,$3,$4, CASE WHEN $4::text='completed' THEN COALESCE($5::timestamptz, NOW()) ELSE $5::timestamptz END)`,
					id, i, m.Name, status, m.CompletedAt); err != nil {
					return err
				}
			}
		}

		if statusChanged {
			entry := model.NewStatusChangeEntry(actor, current, *patch.Status)
			if _, err := insertEntry(ctx, tx, id, entry); err != nil {
				return err
			}
		}

		result, err = getRequest(ctx, tx, id, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *designRepository) AddQuote(ctx context.Context, requestID uuid.UUID, quote model.Quote) (*model.Quote, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var status model.RequestStatus
		err := tx.QueryRow(ctx, `SELECT status FROM design_requests WHERE id=$1 FOR UPDATE`, requestID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		breakdown, err := json.Marshal(quote.Breakdown)
		if err != nil {
			return fmt.Errorf("encode breakdown: %w", err)
		}
		if quote.Breakdown == nil {
			breakdown = []byte("[]")
		}

		const insertQuote = `INSERT INTO quotes (
                id, request_id, amount, currency, description, breakdown,
                estimated_delivery_days, revisions_included, valid_until, status, created_by)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
            RETURNING created_at`
		if err := tx.QueryRow(ctx, insertQuote,
			quote.ID, requestID, quote.Price.Amount, quote.Price.Currency, quote.Description, breakdown,
			quote.EstimatedDeliveryDays, quote.RevisionsIncluded, quote.ValidUntil, quote.Status, quote.CreatedBy,
		).Scan(&quote.CreatedAt); err != nil {
			return err
		}

		if _, err := insertEntry(ctx, tx, requestID, model.NewQuoteIssuedEntry(quote.CreatedBy, quote.Price)); err != nil {
			return err
		}

		if status == model.StatusPending || status == model.StatusConsultation {
			if _, err := tx.Exec(ctx,
				`UPDATE design_requests SET status=$1, updated_at=NOW() WHERE id=$2`,
				model.StatusQuoted, requestID); err != nil {
				return err
			}
		} else {
			if _, err := tx.Exec(ctx, `UPDATE design_requests SET updated_at=NOW() WHERE id=$1`, requestID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *designRepository) AcceptQuote(ctx context.Context, requestID, quoteID uuid.UUID, actor int64) (*model.Quote, error) {
	var accepted *model.Quote
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id=$1 AND request_id=$2 FOR UPDATE`
		quote, err := scanQuote(tx.QueryRow(ctx, query, quoteID, requestID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if quote.Status != model.QuoteStatusAccepted {
			if _, err := tx.Exec(ctx,
				`UPDATE quotes SET status=$1 WHERE id=$2`, model.QuoteStatusAccepted, quoteID); err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
					return domainErrors.ErrQuoteAlreadyAccepted
				}
				return err
			}
			quote.Status = model.QuoteStatusAccepted
		}

		// re-accepting the same quote is a no-op that still logs
		if _, err := insertEntry(ctx, tx, requestID, model.NewQuoteAcceptedEntry(actor, quoteID)); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE design_requests SET updated_at=NOW() WHERE id=$1`, requestID); err != nil {
			return err
		}

		accepted = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

func insertEntry(ctx context.Context, q querier, requestID uuid.UUID, entry model.CommunicationEntry) (*model.CommunicationEntry, error) {
	const query = `INSERT INTO communication_entries (request_id, entry_type, participant, content, is_internal)
                   VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at`
	err := q.QueryRow(ctx, query, requestID, entry.Type, entry.Participant, entry.Content, entry.IsInternal).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *designRepository) AppendEntry(ctx context.Context, requestID uuid.UUID, entry model.CommunicationEntry) (*model.CommunicationEntry, error) {
	var result *model.CommunicationEntry
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM design_requests WHERE id=$1)`, requestID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domainErrors.ErrNotFound
		}
		var err error
		result, err = insertEntry(ctx, tx, requestID, entry)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE design_requests SET updated_at=NOW() WHERE id=$1`, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *designRepository) RecordPayment(ctx context.Context, requestID uuid.UUID, payment model.PaymentRecord) (*model.PaymentRecord, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM design_requests WHERE id=$1)`, requestID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domainErrors.ErrNotFound
		}

		const insertPayment = `INSERT INTO payments (request_id, amount, kind, recorded_by)
                               VALUES ($1,$2,$3,$4) RETURNING id, recorded_at`
		if err := tx.QueryRow(ctx, insertPayment, requestID, payment.Amount, payment.Kind, payment.RecordedBy).
			Scan(&payment.ID, &payment.RecordedAt); err != nil {
			return err
		}

		update := `UPDATE design_requests SET total_paid = total_paid + $1, updated_at=NOW()`
		switch payment.Kind {
		case model.PaymentKindDeposit:
			update += `, deposit_paid=TRUE`
		case model.PaymentKindFinal:
			update += `, final_payment_paid=TRUE`
		}
		update += ` WHERE id=$2`
		if _, err := tx.Exec(ctx, update, payment.Amount, requestID); err != nil {
			return err
		}

		_, err := insertEntry(ctx, tx, requestID, model.NewPaymentEntry(payment.RecordedBy, payment.Amount, payment.Kind))
		return err
	})
	if err != nil {
		return nil, err
	}
	payment.RequestID = requestID
	return &payment, nil
}

func (r *designRepository) ExpireDueQuotes(ctx context.Context, now time.Time, limit int) ([]model.Quote, error) {
	selectQuery := `SELECT ` + quoteColumns + ` FROM quotes
                    WHERE status='pending' AND valid_until < $1
                    ORDER BY valid_until
                    LIMIT $2
                    FOR UPDATE SKIP LOCKED`

	var expired []model.Quote
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, now, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		var due []model.Quote
		for rows.Next() {
			quote, err := scanQuote(rows)
			if err != nil {
				return err
			}
			due = append(due, *quote)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		rows.Close()

		for i := range due {
			q := &due[i]
			if _, err := tx.Exec(ctx, `UPDATE quotes SET status=$1 WHERE id=$2`, model.QuoteStatusExpired, q.ID); err != nil {
				return err
			}
			if _, err := insertEntry(ctx, tx, q.RequestID, model.NewQuoteExpiredEntry(q.ID)); err != nil {
				return err
			}
			q.Status = model.QuoteStatusExpired
			expired = append(expired, *q)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
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

var _ repository.Factory = (*Storage)(nil)
