package iostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/schema"
)

// sqliteTimeLayout keeps a fixed width so that SQLite TEXT columns sort chronologically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	projectColumns = []string{
		"id", "project_name", "project_code", "project_address", "project_type",
		"status", "project_url", "inputs", "results", "saved_at",
	}
	riskColumns = []string{
		"project_id", "uid", "position", "risk_id", "projet", "risque", "type_risque", "description",
		"cout_probable_maximal", "probabilite_avant", "explication_calcul", "mitigation_actions",
		"cout_mitigation", "probabilite_apres",
	}
	deadlineColumns = []string{
		"project_id", "id", "position", "description", "deadline_date", "notice_period_months",
		"deadline_type", "amount",
	}
	changeRequestColumns = []string{
		"id", "project_id", "change_number", "title", "status", "priority", "requester_name",
		"description", "estimated_cost", "created_at",
	}
)

// SQLProjectStore implements ProjectStore on SQLite, MySQL or PostgreSQL.
type SQLProjectStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.ProjectStore = &SQLProjectStore{} // Compile-time check

// NewProjectStore opens the store for the backend and applies pending migrations.
// NoneBackend yields an in-memory store.
func NewProjectStore(backend schema.DatabaseBackend, connStr string) (contract.ProjectStore, error) {
	switch backend {
	case schema.NoneBackend:
		return NewMemoryStore(), nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := migrateUp(backend, connStr); err != nil {
		return nil, fmt.Errorf("failed to prepare project tables: %w", err)
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	contract.Logger.Debug().Str("backend", string(backend)).Msg("project store opened")
	return &SQLProjectStore{db: db, backend: backend, connStr: connStr}, nil
}

// ListProjects returns every stored project, most recently saved first.
func (ps *SQLProjectStore) ListProjects(ctx context.Context) ([]schema.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY saved_at DESC, id",
		strings.Join(projectColumns, ", "), projectsTable)
	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	projects := []schema.Project{}
	index := map[string]int{}
	for rows.Next() {
		p, err := ps.scanProject(rows)
		if err != nil {
			return nil, err
		}
		index[p.ID] = len(projects)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	if len(projects) == 0 {
		return projects, nil
	}

	if err := ps.loadChildren(ctx, "", func(projectID string) *schema.Project {
		if i, ok := index[projectID]; ok {
			return &projects[i]
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return projects, nil
}

// GetProject returns the project with the given ID or contract.ErrProjectNotFound.
func (ps *SQLProjectStore) GetProject(ctx context.Context, id string) (schema.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = %s",
		strings.Join(projectColumns, ", "), projectsTable, placeholder(ps.backend, 1))
	row := ps.db.QueryRowContext(ctx, query, id)

	p, err := ps.scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Project{}, fmt.Errorf("%w: %s", contract.ErrProjectNotFound, id)
	}
	if err != nil {
		return schema.Project{}, err
	}

	if err := ps.loadChildren(ctx, id, func(projectID string) *schema.Project {
		if projectID == p.ID {
			return &p
		}
		return nil
	}); err != nil {
		return schema.Project{}, err
	}

	return p, nil
}

// SaveProject inserts or replaces the whole project aggregate in one transaction.
func (ps *SQLProjectStore) SaveProject(ctx context.Context, p schema.Project) error {
	inputsJSON, err := json.Marshal(p.Inputs)
	if err != nil {
		return fmt.Errorf("failed to marshal inputs: %w", err)
	}
	resultsJSON, err := json.Marshal(p.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, ps.upsertProjectQuery(),
		p.ID, p.ProjectName, p.ProjectCode, p.ProjectAddress, string(p.ProjectType),
		string(p.Status), p.ProjectURL, string(inputsJSON), string(resultsJSON), ps.formatTime(p.SavedAt),
	); err != nil {
		return fmt.Errorf("failed to save project %s: %w", p.ID, err)
	}

	if err := ps.deleteChildren(ctx, tx, p.ID); err != nil {
		return err
	}

	riskQuery := ps.insertQuery(risksTable, riskColumns)
	for i, r := range p.Risks {
		actions := r.MitigationActions
		if actions == nil {
			actions = []schema.MitigationAction{}
		}
		actionsJSON, err := json.Marshal(actions)
		if err != nil {
			return fmt.Errorf("failed to marshal mitigation actions of risk %s: %w", r.UID, err)
		}
		if _, err := tx.ExecContext(ctx, riskQuery,
			p.ID, r.UID, i, r.ID, r.Projet, r.Risque, r.TypeRisque, r.Description,
			nullFloat(r.CoutProbableMaximal), nullFloat(r.ProbabiliteAvant), r.ExplicationCalcul,
			string(actionsJSON), nullFloat(r.CoutMitigation), nullFloat(r.ProbabiliteApres),
		); err != nil {
			return fmt.Errorf("failed to save risk %s: %w", r.UID, err)
		}
	}

	deadlineQuery := ps.insertQuery(deadlinesTable, deadlineColumns)
	for i, d := range p.Deadlines {
		if _, err := tx.ExecContext(ctx, deadlineQuery,
			p.ID, d.ID, i, d.Description, d.Date, d.NoticePeriodInMonths, string(d.Type), nullFloat(d.Amount),
		); err != nil {
			return fmt.Errorf("failed to save deadline %s: %w", d.ID, err)
		}
	}

	changeQuery := ps.insertQuery(changeRequestsTable, changeRequestColumns)
	for _, c := range p.ChangeRequests {
		if _, err := tx.ExecContext(ctx, changeQuery,
			c.ID, p.ID, c.ChangeNumber, c.Title, string(c.Status), string(c.Priority), c.RequesterName,
			c.Description, nullFloat(c.EstimatedCost), ps.formatTime(c.CreatedAt),
		); err != nil {
			return fmt.Errorf("failed to save change request %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project %s: %w", p.ID, err)
	}

	contract.Logger.Debug().
		Str("project", p.ID).
		Int("risks", len(p.Risks)).
		Int("deadlines", len(p.Deadlines)).
		Int("changes", len(p.ChangeRequests)).
		Msg("project saved")
	return nil
}

// DeleteProject removes a project and everything it owns.
func (ps *SQLProjectStore) DeleteProject(ctx context.Context, id string) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := ps.deleteChildren(ctx, tx, id); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = %s", projectsTable, placeholder(ps.backend, 1))
	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", contract.ErrProjectNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion of %s: %w", id, err)
	}
	return nil
}

// GetStatus returns status information about the project store.
func (ps *SQLProjectStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:        string(ps.backend),
		Connected:      ps.db != nil,
		TableSizes:     make(map[string]int64),
		DatabaseTarget: describeTarget(ps.backend, ps.connStr),
	}
	if ps.db == nil {
		return status, nil
	}

	for _, table := range storeTables {
		var count int64
		row := ps.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalProjects = int(status.TableSizes[projectsTable])
	status.TotalRisks = int(status.TableSizes[risksTable])

	var version uint
	row := ps.db.QueryRowContext(ctx, fmt.Sprintf("SELECT version FROM %s LIMIT 1", migrationsTable))
	if err := row.Scan(&version); err == nil {
		status.SchemaVersion = version
	}

	if status.TotalProjects > 0 {
		last, err := ps.savedAtBound(ctx, "DESC")
		if err != nil {
			return status, fmt.Errorf("failed to get last save time: %w", err)
		}
		status.LastSavedAt = last

		oldest, err := ps.savedAtBound(ctx, "ASC")
		if err != nil {
			return status, fmt.Errorf("failed to get oldest save time: %w", err)
		}
		status.OldestSavedAt = oldest
	}

	status.SizeBytes = ps.sizeBytes(ctx, status.TableSizes)
	return status, nil
}

// Close closes the underlying DB connection.
func (ps *SQLProjectStore) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (ps *SQLProjectStore) scanProject(row rowScanner) (schema.Project, error) {
	var p schema.Project
	var projectType, status, inputsJSON, resultsJSON string
	var savedAt timeScanner

	if err := row.Scan(&p.ID, &p.ProjectName, &p.ProjectCode, &p.ProjectAddress, &projectType,
		&status, &p.ProjectURL, &inputsJSON, &resultsJSON, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan project: %w", err)
	}

	p.ProjectType = schema.ProjectType(projectType)
	p.Status = schema.ProjectStatus(status)
	p.SavedAt = savedAt.t
	if err := json.Unmarshal([]byte(inputsJSON), &p.Inputs); err != nil {
		return p, fmt.Errorf("failed to decode inputs of project %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(resultsJSON), &p.Results); err != nil {
		return p, fmt.Errorf("failed to decode results of project %s: %w", p.ID, err)
	}
	p.Risks = []schema.RiskItem{}
	p.Deadlines = []schema.ContractDeadline{}
	p.ChangeRequests = []schema.ChangeRequest{}
	return p, nil
}

// loadChildren attaches risks, deadlines and change requests to their projects.
// An empty projectID loads the children of every project.
func (ps *SQLProjectStore) loadChildren(ctx context.Context, projectID string, owner func(string) *schema.Project) error {
	where, args := "", []any{}
	if projectID != "" {
		where = " WHERE project_id = " + placeholder(ps.backend, 1)
		args = append(args, projectID)
	}

	if err := ps.loadRisks(ctx, where, args, owner); err != nil {
		return err
	}
	if err := ps.loadDeadlines(ctx, where, args, owner); err != nil {
		return err
	}
	return ps.loadChangeRequests(ctx, where, args, owner)
}

func (ps *SQLProjectStore) loadRisks(ctx context.Context, where string, args []any, owner func(string) *schema.Project) error {
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY project_id, position",
		strings.Join(riskColumns, ", "), risksTable, where)
	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query risks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r schema.RiskItem
		var projectID, actionsJSON string
		var position int
		var maxCost, probBefore, mitigationCost, probAfter sql.NullFloat64
		if err := rows.Scan(&projectID, &r.UID, &position, &r.ID, &r.Projet, &r.Risque, &r.TypeRisque,
			&r.Description, &maxCost, &probBefore, &r.ExplicationCalcul, &actionsJSON,
			&mitigationCost, &probAfter); err != nil {
			return fmt.Errorf("failed to scan risk: %w", err)
		}
		r.CoutProbableMaximal = fromNullFloat(maxCost)
		r.ProbabiliteAvant = fromNullFloat(probBefore)
		r.CoutMitigation = fromNullFloat(mitigationCost)
		r.ProbabiliteApres = fromNullFloat(probAfter)
		if err := json.Unmarshal([]byte(actionsJSON), &r.MitigationActions); err != nil {
			return fmt.Errorf("failed to decode mitigation actions of risk %s: %w", r.UID, err)
		}
		if p := owner(projectID); p != nil {
			p.Risks = append(p.Risks, r)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating risks: %w", err)
	}
	return nil
}

func (ps *SQLProjectStore) loadDeadlines(ctx context.Context, where string, args []any, owner func(string) *schema.Project) error {
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY project_id, position",
		strings.Join(deadlineColumns, ", "), deadlinesTable, where)
	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query deadlines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var d schema.ContractDeadline
		var projectID, deadlineType string
		var position int
		var amount sql.NullFloat64
		if err := rows.Scan(&projectID, &d.ID, &position, &d.Description, &d.Date,
			&d.NoticePeriodInMonths, &deadlineType, &amount); err != nil {
			return fmt.Errorf("failed to scan deadline: %w", err)
		}
		d.Type = schema.DeadlineType(deadlineType)
		d.Amount = fromNullFloat(amount)
		if p := owner(projectID); p != nil {
			p.Deadlines = append(p.Deadlines, d)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating deadlines: %w", err)
	}
	return nil
}

func (ps *SQLProjectStore) loadChangeRequests(ctx context.Context, where string, args []any, owner func(string) *schema.Project) error {
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY created_at, id",
		strings.Join(changeRequestColumns, ", "), changeRequestsTable, where)
	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query change requests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c schema.ChangeRequest
		var status, priority string
		var cost sql.NullFloat64
		var createdAt timeScanner
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.ChangeNumber, &c.Title, &status, &priority,
			&c.RequesterName, &c.Description, &cost, &createdAt); err != nil {
			return fmt.Errorf("failed to scan change request: %w", err)
		}
		c.Status = schema.ChangeStatus(status)
		c.Priority = schema.ChangePriority(priority)
		c.EstimatedCost = fromNullFloat(cost)
		c.CreatedAt = createdAt.t
		if p := owner(c.ProjectID); p != nil {
			c.ProjectName = p.ProjectName
			p.ChangeRequests = append(p.ChangeRequests, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating change requests: %w", err)
	}
	return nil
}

func (ps *SQLProjectStore) deleteChildren(ctx context.Context, tx *sql.Tx, projectID string) error {
	for _, table := range []string{changeRequestsTable, deadlinesTable, risksTable} {
		query := fmt.Sprintf("DELETE FROM %s WHERE project_id = %s", table, placeholder(ps.backend, 1))
		if _, err := tx.ExecContext(ctx, query, projectID); err != nil {
			return fmt.Errorf("failed to clear %s for project %s: %w", table, projectID, err)
		}
	}
	return nil
}

// upsertProjectQuery returns the UPSERT query of the projects table for the backend.
func (ps *SQLProjectStore) upsertProjectQuery() string {
	cols := strings.Join(projectColumns, ", ")
	values := placeholders(ps.backend, len(projectColumns))
	updates := projectColumns[1:]

	switch ps.backend {
	case schema.MySQLBackend:
		sets := make([]string, len(updates))
		for i, col := range updates {
			sets[i] = fmt.Sprintf("%s = new.%s", col, col)
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) AS new ON DUPLICATE KEY UPDATE %s",
			projectsTable, cols, values, strings.Join(sets, ", "))

	case schema.PostgreSQLBackend:
		sets := make([]string, len(updates))
		for i, col := range updates {
			sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", col, col)
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
			projectsTable, cols, values, strings.Join(sets, ", "))

	default: // SQLite
		return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)", projectsTable, cols, values)
	}
}

func (ps *SQLProjectStore) insertQuery(table string, columns []string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders(ps.backend, len(columns)))
}

func (ps *SQLProjectStore) savedAtBound(ctx context.Context, order string) (time.Time, error) {
	query := fmt.Sprintf("SELECT saved_at FROM %s ORDER BY saved_at %s LIMIT 1", projectsTable, order)
	var ts timeScanner
	if err := ps.db.QueryRowContext(ctx, query).Scan(&ts); err != nil {
		return time.Time{}, err
	}
	return ts.t, nil
}

// sizeBytes estimates the on-disk size of the store.
func (ps *SQLProjectStore) sizeBytes(ctx context.Context, counts map[string]int64) int64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	estimate := total * 1000 // Rough estimate

	var size int64
	switch ps.backend {
	case schema.SQLiteBackend:
		row := ps.db.QueryRowContext(ctx, "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return estimate
		}
	case schema.MySQLBackend:
		dbName := describeTarget(ps.backend, ps.connStr)
		if dbName == "" {
			return estimate
		}
		row := ps.db.QueryRowContext(ctx,
			"SELECT COALESCE(SUM(data_length + index_length), 0) FROM information_schema.tables WHERE table_schema = ? AND table_name LIKE 'contractrisk_%'",
			dbName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
	case schema.PostgreSQLBackend:
		for _, table := range storeTables {
			var n int64
			if err := ps.db.QueryRowContext(ctx, "SELECT pg_total_relation_size($1)", table).Scan(&n); err != nil {
				return estimate
			}
			size += n
		}
	default:
		return estimate
	}
	return size
}

// formatTime converts a time.Time to the appropriate format for the backend.
func (ps *SQLProjectStore) formatTime(t time.Time) any {
	if ps.backend == schema.SQLiteBackend {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

// timeScanner reads a timestamp stored as TEXT on SQLite and natively elsewhere.
type timeScanner struct {
	t time.Time
}

// Scan implements sql.Scanner.
func (ts *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		ts.t = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		ts.t = time.Time{}
		return nil
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}
}

func (ts *timeScanner) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	ts.t = t.UTC()
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return schema.Float(v.Float64)
}
