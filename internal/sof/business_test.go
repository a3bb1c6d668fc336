package sof_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marithon/internal/sof"
)

func newBusinessExtractor(t *testing.T) *sof.BusinessExtractor {
	t.Helper()
	patterns, err := sof.LoadPatterns("")
	require.NoError(t, err)
	return sof.NewBusinessExtractor(patterns)
}

func TestBusinessExtractor_Extract(t *testing.T) {
	e := newBusinessExtractor(t)

	data := e.Extract([]string{
		"STATEMENT OF FACTS",
		"Vessel Name: MV OCEAN STAR",
		"Port of Loading: Santos",
		"Port of Discharge: Qingdao",
		"Cargo Description: Soya Beans in bulk",
		"Quantity: 55,000 MT",
		"Load rate: 10,000 MT per day",
		"Demurrage: USD 20,000",
		"Despatch: USD 10,000",
		"Allowed Laytime: 5.5 days",
	})

	require.NotNil(t, data.Vessel)
	assert.Equal(t, "MV OCEAN STAR", *data.Vessel)
	require.NotNil(t, data.VoyageFrom)
	assert.Equal(t, "Santos", *data.VoyageFrom)
	require.NotNil(t, data.VoyageTo)
	assert.Equal(t, "Qingdao", *data.VoyageTo)
	require.NotNil(t, data.Cargo)
	assert.Equal(t, "Soya Beans in bulk", *data.Cargo)
	require.NotNil(t, data.Operation)
	assert.Equal(t, "load", *data.Operation)
	require.NotNil(t, data.Quantity)
	assert.Equal(t, 55000.0, *data.Quantity)
	require.NotNil(t, data.Rate)
	assert.Equal(t, 10000.0, *data.Rate)
	require.NotNil(t, data.Demurrage)
	assert.Equal(t, 20000.0, *data.Demurrage)
	require.NotNil(t, data.Dispatch)
	assert.Equal(t, 10000.0, *data.Dispatch)
	require.NotNil(t, data.Allowed)
	assert.Equal(t, 5.5, *data.Allowed)
}

func TestBusinessExtractor_LabelOnNextLine(t *testing.T) {
	e := newBusinessExtractor(t)

	data := e.Extract([]string{
		"Name of vessel:",
		"",
		"  Pacific   Dawn ",
		"Discharging port: to Rotterdam",
	})

	require.NotNil(t, data.Vessel)
	assert.Equal(t, "Pacific Dawn", *data.Vessel)
	require.NotNil(t, data.VoyageTo)
	assert.Equal(t, "Rotterdam", *data.VoyageTo)
	require.NotNil(t, data.Operation)
	assert.Equal(t, "discharge", *data.Operation)
}

func TestBusinessExtractor_VesselFallback(t *testing.T) {
	e := newBusinessExtractor(t)

	data := e.Extract([]string{"M.V. OCEAN STAR"})

	require.NotNil(t, data.Vessel)
	assert.Equal(t, "M.V. OCEAN STAR", *data.Vessel)
	assert.Nil(t, data.Operation)
}

func TestBusinessExtractor_CargoSkipsPortLines(t *testing.T) {
	e := newBusinessExtractor(t)

	data := e.Extract([]string{
		"Port of loading - cargo terminal 3",
		"Cargo: Iron Ore Fines",
	})

	require.NotNil(t, data.Cargo)
	assert.Equal(t, "Iron Ore Fines", *data.Cargo)
}

func TestBusinessExtractor_RateAfterWord(t *testing.T) {
	e := newBusinessExtractor(t)

	data := e.Extract([]string{"Discharge rate: 8,000"})

	require.NotNil(t, data.Rate)
	assert.Equal(t, 8000.0, *data.Rate)
}

func TestBusinessExtractor_Empty(t *testing.T) {
	e := newBusinessExtractor(t)

	data := e.Extract(nil)

	assert.Equal(t, 0, data.NonEmptyCount())
}

func TestCleanValue(t *testing.T) {
	assert.Equal(t, "Santos Brazil", sof.CleanValue("  to   Santos  Brazil "))
	assert.Equal(t, "Berth 4", sof.CleanValue("at Berth 4"))
	assert.Equal(t, "Tokyo", sof.CleanValue("Tokyo"))
}
