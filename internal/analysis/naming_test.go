package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/swarmsim/internal/core/models"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want models.RunMeta
	}{
		{"plain", "Policy_10agents_10000steps_3seed.parquet",
			models.RunMeta{Policy: "Policy", Vehicles: 10, Steps: 10000, Seed: 3}},
		{"underscored policy", "data/Policy_Random_Network2_4agents_50steps_12seed.p",
			models.RunMeta{Policy: "Policy_Random_Network2", Vehicles: 4, Steps: 50, Seed: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseName(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNameRejects(t *testing.T) {
	for _, bad := range []string{
		"",
		"Policy.parquet",
		"Policy_10agents_10steps_seed.parquet",
		"Policy_10agents_10steps_3seed",
		"_10agents_10steps_3seed.parquet",
		"Policy_10agents_10steps_99999999999999999999999seed.parquet",
		"Policy_10agents_10steps_9223372036854775808seed.parquet",
	} {
		_, err := ParseName(bad)
		assert.ErrorIs(t, err, ErrBadName, bad)
	}
}

func TestFormatNameRoundTrip(t *testing.T) {
	meta := models.RunMeta{Policy: "Policy_Follow_Leader", Vehicles: 7, Steps: 300, Seed: 42}
	name := FormatName(meta, "")
	assert.Equal(t, "Policy_Follow_Leader_7agents_300steps_42seed.parquet", name)

	got, err := ParseName(name)
	require.NoError(t, err)
	assert.Equal(t, meta, got)
}

func TestParseNameSeedBound(t *testing.T) {
	got, err := ParseName("Policy_2agents_5steps_9223372036854775807seed.parquet")
	require.NoError(t, err)
	assert.Equal(t, uint64(MaxSeed), got.Seed)
}
