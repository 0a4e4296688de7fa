package database

import (
	"context"
	"testing"

	"flightreport/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayWindow(day string) []models.Predicate {
	return []models.Predicate{
		{Kind: models.Like, Column: models.ColumnEndTime, Value: day + "%"},
		{Kind: models.Like, Column: models.ColumnStartTime, Value: day + "%"},
	}
}

func setupObservations(t *testing.T) ObservationRepository {
	t.Helper()

	path := setupBaseStation(t,
		[]fixtureAircraft{
			{ModeS: "A1B2C3", Country: "N", Registration: "N12345"},
			{ModeS: "C0FFEE", Country: "Canada", Registration: nil, Interested: true},
			{ModeS: "ABCDEF", Country: "N", Registration: "N999ZZ", Interested: true},
		},
		[]fixtureFlight{
			{Aircraft: 1, StartTime: "2024-05-01 14:00:00.000", EndTime: "2024-05-01 14:30:00.000", Callsign: "SWA3848"},
			{Aircraft: 2, StartTime: "2024-04-30 23:50:00.000", EndTime: "2024-05-01 00:10:00.000", Callsign: nil},
			{Aircraft: 3, StartTime: "2024-05-01 08:00:00.000", EndTime: nil, Callsign: "N999ZZ"},
			{Aircraft: 1, StartTime: "2024-05-02 09:00:00.000", EndTime: "2024-05-02 09:30:00.000", Callsign: "SWA1"},
			{Aircraft: 3, StartTime: "2024-05-01 08:00:00.000", EndTime: "2024-05-01 08:05:00.000", Callsign: "TIE"},
		},
	)

	db, err := NewReadOnly(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db.Observations()
}

func modeSCodes(obs []*models.RawObservation) []any {
	codes := make([]any, 0, len(obs))
	for _, o := range obs {
		codes = append(codes, o.ModeS)
	}
	return codes
}

func TestObservationRepository_Find(t *testing.T) {
	tests := []struct {
		name     string
		allOf    []models.Predicate
		expected []any
	}{
		{
			name:     "date window only",
			expected: []any{"C0FFEE", "ABCDEF", "ABCDEF", "A1B2C3"},
		},
		{
			name:     "flagged aircraft",
			allOf:    []models.Predicate{{Kind: models.Equals, Column: models.ColumnInterested, Value: 1}},
			expected: []any{"C0FFEE", "ABCDEF", "ABCDEF"},
		},
		{
			name:     "missing registration",
			allOf:    []models.Predicate{{Kind: models.IsNull, Column: models.ColumnRegistration}},
			expected: []any{"C0FFEE"},
		},
	}

	repo := setupObservations(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, err := repo.Find(context.Background(), models.Selection{
				AnyOf:   dayWindow("2024-05-01"),
				AllOf:   tt.allOf,
				OrderBy: models.ColumnStartTime,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, modeSCodes(obs))
		})
	}
}

func TestObservationRepository_FindTiesKeepInsertionOrder(t *testing.T) {
	repo := setupObservations(t)

	obs, err := repo.Find(context.Background(), models.Selection{
		AnyOf:   dayWindow("2024-05-01"),
		OrderBy: models.ColumnStartTime,
	})
	require.NoError(t, err)
	require.Len(t, obs, 4)

	assert.Equal(t, "N999ZZ", obs[1].Callsign)
	assert.Equal(t, "TIE", obs[2].Callsign)
}

func TestObservationRepository_FindRawValues(t *testing.T) {
	repo := setupObservations(t)

	obs, err := repo.Find(context.Background(), models.Selection{
		AnyOf:   dayWindow("2024-05-01"),
		AllOf:   []models.Predicate{{Kind: models.IsNull, Column: models.ColumnRegistration}},
		OrderBy: models.ColumnStartTime,
	})
	require.NoError(t, err)
	require.Len(t, obs, 1)

	o := obs[0]
	assert.Equal(t, "2024-04-30 23:50:00.000", o.StartTime, "timestamps are returned as stored text")
	assert.Nil(t, o.Registration)
	assert.Nil(t, o.Callsign)
	assert.Equal(t, true, o.Interested)
	require.Len(t, o.MessageSlots, len(models.MessageSlotColumns))
	assert.Equal(t, int64(10), o.MessageSlots[0])
	assert.Equal(t, int64(5), o.MessageSlots[1])
	assert.Nil(t, o.MessageSlots[9], "NumAirCallRepMsgRec is outside the slot range")
}

func TestObservationRepository_FindNoMatches(t *testing.T) {
	repo := setupObservations(t)

	obs, err := repo.Find(context.Background(), models.Selection{
		AnyOf:   dayWindow("1999-01-01"),
		OrderBy: models.ColumnStartTime,
	})
	require.NoError(t, err)
	assert.Empty(t, obs)
}

func TestObservationRepository_FindMissingTables(t *testing.T) {
	db := setupRouteDB(t)

	_, err := db.Observations().Find(context.Background(), models.Selection{
		AnyOf:   dayWindow("2024-05-01"),
		OrderBy: models.ColumnStartTime,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStorage)
}

func TestBuildObservationQuery(t *testing.T) {
	query, args, err := buildObservationQuery(models.Selection{
		AnyOf:   dayWindow("2024-05-01"),
		AllOf:   []models.Predicate{{Kind: models.IsNull, Column: models.ColumnRegistration}},
		OrderBy: models.ColumnStartTime,
	})
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE (f.EndTime LIKE ? OR f.StartTime LIKE ?) AND a.Registration IS NULL")
	assert.Contains(t, query, "ORDER BY f.StartTime, f.FlightID")
	assert.Contains(t, query, "f.NumAirToAirMsgRec")
	assert.NotContains(t, query, "NumAirCallRepMsgRec")
	assert.Equal(t, []any{"2024-05-01%", "2024-05-01%"}, args)
}

func TestBuildObservationQuery_UnknownColumn(t *testing.T) {
	_, _, err := buildObservationQuery(models.Selection{
		AllOf:   []models.Predicate{{Kind: models.Equals, Column: models.Column(99), Value: 1}},
		OrderBy: models.ColumnStartTime,
	})
	assert.Error(t, err)
}
