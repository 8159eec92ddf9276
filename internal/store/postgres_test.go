package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cohort-cli/internal/consolidate"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresSaveTable(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DROP TABLE IF EXISTS "motor_assessments"`).
		WillReturnResult(pgxmock.NewResult("DROP", 0))
	mock.ExpectExec(`CREATE TABLE "motor_assessments" \("PATNO" TEXT, "EVENT_ID" TEXT, "NP1TOT" DOUBLE PRECISION, "NUPSOURC" TEXT\)`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"motor_assessments"}, []string{"PATNO", "EVENT_ID", "NP1TOT", "NUPSOURC"}).
		WillReturnResult(2)

	err := s.SaveTable(context.Background(), "Motor Assessments", testFrame())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveTableSkipsEmpty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	require.NoError(t, s.SaveTable(context.Background(), "nothing", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveTableCreateFails(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DROP TABLE IF EXISTS`).
		WillReturnResult(pgxmock.NewResult("DROP", 0))
	mock.ExpectExec(`CREATE TABLE`).
		WillReturnError(assert.AnError)

	err := s.SaveTable(context.Background(), "visits", testFrame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create visits")
}

func TestPostgresSaveRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO cohort_runs`).
		WithArgs("run-123", pgxmock.AnyArg(), 42, 7, true, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	report := &consolidate.Report{RunID: "run-123", Rows: 42, Columns: 7, KeyUnique: true}
	require.NoError(t, s.SaveRun(context.Background(), report))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS cohort_runs`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
