package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gfps/internal/database"
	"github.com/yourusername/gfps/internal/models"
	"github.com/yourusername/gfps/internal/strength"
)

// assign copies values into scan destinations the way pgx would for
// already-decoded Go values.
func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(values), len(dest))
	}
	for i, v := range values {
		target := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(v))
	}
	return nil
}

type fakeRows struct {
	data   [][]any
	pos    int
	err    error
	closed bool
}

func (f *fakeRows) Close()                                       { f.closed = true }
func (f *fakeRows) Err() error                                   { return f.err }
func (f *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (f *fakeRows) RawValues() [][]byte                          { return nil }
func (f *fakeRows) Conn() *pgx.Conn                              { return nil }
func (f *fakeRows) Values() ([]any, error)                       { return f.data[f.pos-1], nil }
func (f *fakeRows) Scan(dest ...any) error                       { return assign(f.data[f.pos-1], dest) }

func (f *fakeRows) Next() bool {
	if f.pos < len(f.data) {
		f.pos++
		return true
	}
	return false
}

type fakeRow struct {
	values []any
	err    error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	return assign(f.values, dest)
}

type mockQuerier struct {
	mock.Mock
	copied [][]any
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	ret := m.Called(sql, args)
	rows, _ := ret.Get(0).(pgx.Rows)
	return rows, ret.Error(1)
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return m.Called(sql, args).Get(0).(pgx.Row)
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	ret := m.Called(sql, args)
	return pgconn.NewCommandTag("INSERT 0 1"), ret.Error(0)
}

func (m *mockQuerier) CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, rows pgx.CopyFromSource) (int64, error) {
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return 0, err
		}
		m.copied = append(m.copied, vals)
	}
	ret := m.Called(table, columns)
	return ret.Get(0).(int64), ret.Error(1)
}

var kickoff = time.Date(2024, 8, 17, 15, 0, 0, 0, time.UTC)

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	require.Error(t, err)

	repos, err := NewRepositories(&mockQuerier{})
	require.NoError(t, err)
	assert.NotNil(t, repos.MatchResults)
	assert.NotNil(t, repos.TeamStats)
}

func TestListResults(t *testing.T) {
	q := &mockQuerier{}
	rows := &fakeRows{data: [][]any{
		{"EPL", "Arsenal", "Wolves", 2, 0, kickoff},
		{"EPL", "Everton", "Brighton", 0, 3, kickoff.Add(2 * time.Hour)},
	}}
	since := kickoff.Add(-24 * time.Hour)
	q.On("Query", listMatchResultsQuery, []any{since}).Return(rows, nil)

	results, err := NewPostgresMatchResultRepository(q).ListResults(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, strength.MatchResult{
		League: "EPL", HomeTeam: "Arsenal", AwayTeam: "Wolves", HomeGoals: 2, AwayGoals: 0, PlayedAt: kickoff,
	}, results[0])
	assert.Equal(t, 3, results[1].AwayGoals)
	assert.True(t, rows.closed)
	q.AssertExpectations(t)
}

func TestListResultsErrors(t *testing.T) {
	boom := errors.New("connection reset")

	q := &mockQuerier{}
	q.On("Query", mock.Anything, mock.Anything).Return(nil, boom)
	_, err := NewPostgresMatchResultRepository(q).ListResults(context.Background(), time.Time{})
	assert.ErrorIs(t, err, boom)

	q = &mockQuerier{}
	q.On("Query", mock.Anything, mock.Anything).Return(&fakeRows{err: boom}, nil)
	_, err = NewPostgresMatchResultRepository(q).ListResults(context.Background(), time.Time{})
	assert.ErrorIs(t, err, boom)
}

func TestRepositoryFeedsRefresher(t *testing.T) {
	q := &mockQuerier{}
	q.On("Query", mock.Anything, mock.Anything).Return(&fakeRows{data: [][]any{
		{"EPL", "Arsenal", "Wolves", 3, 0, kickoff},
	}}, nil)

	table := strength.NewTable(nil)
	r := strength.NewRefresher(NewPostgresMatchResultRepository(q), table, strength.DefaultLeagueStrength, 0, nil)
	require.NoError(t, r.Refresh(context.Background()))

	assert.Greater(t, table.Snapshot().Strength("EPL", "Arsenal").Attack, 1.0)
}

func TestInsertValidates(t *testing.T) {
	repo := NewPostgresMatchResultRepository(&mockQuerier{})

	err := repo.Insert(context.Background(), strength.MatchResult{HomeTeam: "A", AwayTeam: "B", HomeGoals: -1, PlayedAt: kickoff})
	assert.ErrorIs(t, err, models.ErrInvalidResult)

	err = repo.Insert(context.Background(), strength.MatchResult{HomeTeam: "A", HomeGoals: 1, PlayedAt: kickoff})
	assert.ErrorIs(t, err, models.ErrInvalidResult)

	err = repo.Insert(context.Background(), strength.MatchResult{HomeTeam: "A", AwayTeam: "B"})
	assert.ErrorIs(t, err, models.ErrInvalidResult)
}

func TestInsert(t *testing.T) {
	q := &mockQuerier{}
	res := strength.MatchResult{League: "EPL", HomeTeam: "A", AwayTeam: "B", HomeGoals: 1, AwayGoals: 1, PlayedAt: kickoff}
	q.On("Exec", insertMatchResultQuery, []any{"EPL", "A", "B", 1, 1, kickoff}).Return(nil)

	require.NoError(t, NewPostgresMatchResultRepository(q).Insert(context.Background(), res))
	q.AssertExpectations(t)
}

func TestInsertBatch(t *testing.T) {
	q := &mockQuerier{}
	q.On("CopyFrom", pgx.Identifier{"match_results"}, matchResultColumns).Return(int64(2), nil)

	results := []strength.MatchResult{
		{League: "EPL", HomeTeam: "A", AwayTeam: "B", HomeGoals: 1, AwayGoals: 0, PlayedAt: kickoff},
		{League: "EPL", HomeTeam: "C", AwayTeam: "D", HomeGoals: 2, AwayGoals: 2, PlayedAt: kickoff},
	}
	require.NoError(t, NewPostgresMatchResultRepository(q).InsertBatch(context.Background(), results))
	require.Len(t, q.copied, 2)
	assert.Equal(t, []any{"EPL", "C", "D", 2, 2, kickoff}, q.copied[1])

	assert.NoError(t, NewPostgresMatchResultRepository(&mockQuerier{}).InsertBatch(context.Background(), nil))
}

func TestInsertBatchShortCopy(t *testing.T) {
	q := &mockQuerier{}
	q.On("CopyFrom", mock.Anything, mock.Anything).Return(int64(1), nil)

	results := []strength.MatchResult{
		{HomeTeam: "A", AwayTeam: "B", PlayedAt: kickoff},
		{HomeTeam: "C", AwayTeam: "D", PlayedAt: kickoff},
	}
	err := NewPostgresMatchResultRepository(q).InsertBatch(context.Background(), results)
	assert.ErrorContains(t, err, "inserted 1 rows, expected 2")
}

func statsRow(team string, homeAttack, awayAttack, homeDef, awayDef, goalsFor *float64) fakeRow {
	return fakeRow{values: []any{
		"39", "Premier League", team, "2024",
		homeAttack, awayAttack, homeDef, awayDef, goalsFor, strength.Float(1.0), kickoff,
	}}
}

func TestTeamStatsGet(t *testing.T) {
	q := &mockQuerier{}
	q.On("QueryRow", getTeamStatsQuery, []any{"39", "Arsenal", "2024"}).
		Return(statsRow("Arsenal", strength.Float(1.4), nil, strength.Float(0.7), nil, strength.Float(2.1)))

	s, err := NewPostgresTeamStatsRepository(q).Get(context.Background(), "39", "Arsenal", "")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", s.TeamName)
	require.NotNil(t, s.HomeAttack)
	assert.Equal(t, 1.4, *s.HomeAttack)
	assert.Nil(t, s.AwayAttack)
}

func TestTeamStatsGetNotFound(t *testing.T) {
	q := &mockQuerier{}
	q.On("QueryRow", mock.Anything, mock.Anything).Return(fakeRow{err: pgx.ErrNoRows})

	_, err := NewPostgresTeamStatsRepository(q).Get(context.Background(), "39", "Nobody", "2023")
	assert.ErrorIs(t, err, models.ErrTeamStatsNotFound)
}

func TestGetContext(t *testing.T) {
	q := &mockQuerier{}
	q.On("QueryRow", getTeamStatsQuery, []any{"39", "Arsenal", "2024"}).
		Return(statsRow("Arsenal", strength.Float(1.4), strength.Float(1.1), strength.Float(0.7), strength.Float(0.9), strength.Float(2.1)))
	q.On("QueryRow", getTeamStatsQuery, []any{"39", "Fulham", "2024"}).
		Return(statsRow("Fulham", strength.Float(1.0), strength.Float(0.8), strength.Float(1.2), strength.Float(1.3), strength.Float(1.2)))

	ctx, err := NewPostgresTeamStatsRepository(q).GetContext(context.Background(), "39", "Arsenal", "Fulham", "2024")
	require.NoError(t, err)

	r := ctx.Resolve()
	assert.Equal(t, 1.4, r.HomeAttack)
	assert.Equal(t, 0.8, r.AwayAttack)
	assert.Equal(t, 0.7, r.HomeDefense)
	assert.Equal(t, 1.3, r.AwayDefense)
	assert.Equal(t, 2.1, r.AvgGoalsHomeLeague)
	assert.Equal(t, 1.2, r.AvgGoalsAwayLeague)
}

func TestGetContextMissingTeamIsEmpty(t *testing.T) {
	q := &mockQuerier{}
	q.On("QueryRow", getTeamStatsQuery, []any{"39", "Arsenal", "2024"}).
		Return(statsRow("Arsenal", strength.Float(1.4), nil, nil, nil, nil))
	q.On("QueryRow", getTeamStatsQuery, []any{"39", "Promoted FC", "2024"}).
		Return(fakeRow{err: pgx.ErrNoRows})

	ctx, err := NewPostgresTeamStatsRepository(q).GetContext(context.Background(), "39", "Arsenal", "Promoted FC", "")
	require.NoError(t, err)
	assert.Equal(t, strength.Context{}, ctx)
}

func TestGetContextPropagatesFailures(t *testing.T) {
	boom := errors.New("timeout")
	q := &mockQuerier{}
	q.On("QueryRow", mock.Anything, mock.Anything).Return(fakeRow{err: boom})

	_, err := NewPostgresTeamStatsRepository(q).GetContext(context.Background(), "39", "A", "B", "")
	assert.ErrorIs(t, err, boom)
}

func TestUpsert(t *testing.T) {
	q := &mockQuerier{}
	q.On("Exec", upsertTeamStatsQuery, mock.Anything).Return(nil)

	stats := &models.TeamStats{LeagueID: "39", TeamName: "Arsenal", HomeAttack: strength.Float(1.2)}
	require.NoError(t, NewPostgresTeamStatsRepository(q).Upsert(context.Background(), stats))
	assert.Equal(t, models.DefaultSeason, stats.Season)

	assert.Error(t, NewPostgresTeamStatsRepository(q).Upsert(context.Background(), &models.TeamStats{}))
}

func TestSaveRatings(t *testing.T) {
	q := &mockQuerier{}
	q.On("Exec", saveRatingQuery, mock.MatchedBy(func(args []any) bool {
		return len(args) == 10 && args[2] == "Arsenal" && args[3] == "2025"
	})).Return(nil).Once()
	q.On("Exec", saveRatingQuery, mock.MatchedBy(func(args []any) bool {
		return len(args) == 10 && args[2] == "Chelsea" && args[3] == "2025"
	})).Return(nil).Once()

	ratings := strength.Ratings([]strength.MatchResult{
		{League: "EPL", HomeTeam: "Arsenal", AwayTeam: "Chelsea", HomeGoals: 2, AwayGoals: 1},
	}, 0.1)
	require.NoError(t, NewPostgresTeamStatsRepository(q).SaveRatings(context.Background(), "2025", ratings))
	q.AssertExpectations(t)
}

func TestSaveRatingsStopsOnError(t *testing.T) {
	q := &mockQuerier{}
	q.On("Exec", saveRatingQuery, mock.Anything).Return(errors.New("deadlock")).Once()

	ratings := []strength.Rating{{League: "EPL", Team: "A"}, {League: "EPL", Team: "B"}}
	err := NewPostgresTeamStatsRepository(q).SaveRatings(context.Background(), "2025", ratings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EPL/A")
	q.AssertNumberOfCalls(t, "Exec", 1)
}

func TestRepositoriesAgainstDatabase(t *testing.T) {
	db := database.SetupTestDB(t)
	database.TruncateTestTables(t, db)
	ctx := context.Background()

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	require.NoError(t, repos.MatchResults.InsertBatch(ctx, []strength.MatchResult{
		{League: "EPL", HomeTeam: "A", AwayTeam: "B", HomeGoals: 2, AwayGoals: 1, PlayedAt: kickoff},
	}))
	results, err := repos.MatchResults.ListResults(ctx, kickoff.Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, results, 1)

	require.NoError(t, repos.TeamStats.Upsert(ctx, &models.TeamStats{LeagueID: "EPL", TeamName: "A", HomeAttack: strength.Float(1.3)}))
	require.NoError(t, repos.TeamStats.Upsert(ctx, &models.TeamStats{LeagueID: "EPL", TeamName: "B", AwayAttack: strength.Float(0.9)}))

	fixture, err := repos.TeamStats.GetContext(ctx, "EPL", "A", "B", "")
	require.NoError(t, err)
	assert.Equal(t, 1.3, fixture.Resolve().HomeAttack)
	assert.Equal(t, 0.9, fixture.Resolve().AwayAttack)
}
