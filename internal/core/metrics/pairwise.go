package metrics

import (
	"fmt"

	"github.com/zeusync/swarmsim/internal/core/models"
)

// PairRecord is one row of pairwise information metrics. Field order is the
// contract with downstream aggregation; the parquet column names match the
// historical result tables.
type PairRecord struct {
	SeedID       int64   `json:"seed" parquet:"Seed"`
	VehicleA     int64   `json:"vehicle_a" parquet:"Vehicle_A"`
	VehicleB     int64   `json:"vehicle_b" parquet:"Vehicle_B"`
	Hx           float64 `json:"hx" parquet:"Hx"`
	Hy           float64 `json:"hy" parquet:"Hy"`
	Hxy          float64 `json:"hxy" parquet:"Hxy"`
	HyGivenX     float64 `json:"hy_given_x" parquet:"Hy_given_x"`
	HxGivenY     float64 `json:"hx_given_y" parquet:"Hx_given_y"`
	MI           float64 `json:"mi" parquet:"MI_xy"`
	MINormalized float64 `json:"mi_normalized" parquet:"MI_xy_Normalized"`
}

func newPairRecord(seedID int64, a, b int, info Info) PairRecord {
	return PairRecord{
		SeedID:       seedID,
		VehicleA:     int64(a),
		VehicleB:     int64(b),
		Hx:           info.Hx,
		Hy:           info.Hy,
		Hxy:          info.Hxy,
		HyGivenX:     info.HyGivenX,
		HxGivenY:     info.HxGivenY,
		MI:           info.MI,
		MINormalized: info.MINormalized,
	}
}

// BinSeries extracts one field of every vehicle from a tensor, normalizes it
// onto [0, 1] and discretizes it into nbins. Result is indexed [vehicle][step].
func BinSeries(t *models.Tensor, field models.Field, nbins int) ([][]int, error) {
	out := make([][]int, t.Vehicles())
	for v := range out {
		series := t.Series(v, field)
		for i := range series {
			series[i] = field.Normalize(series[i])
		}
		binned, err := Discretize(series, nbins)
		if err != nil {
			return nil, fmt.Errorf("vehicle %d %s: %w", v, field, err)
		}
		out[v] = binned
	}
	return out, nil
}

// PairwiseMI computes one record for every unordered vehicle pair a < b of
// the tensor, in (a, b) lexicographic order.
func PairwiseMI(seedID int64, t *models.Tensor, field models.Field, nbins int) ([]PairRecord, error) {
	binned, err := BinSeries(t, field, nbins)
	if err != nil {
		return nil, err
	}
	n := len(binned)
	records := make([]PairRecord, 0, n*(n-1)/2)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			info, err := Investigate(binned[a], binned[b])
			if err != nil {
				return nil, err
			}
			records = append(records, newPairRecord(seedID, a, b, info))
		}
	}
	return records, nil
}

// MeanPairRecord averages the information columns of records. Identity
// columns carry the first record's seed and are otherwise zero.
func MeanPairRecord(records []PairRecord) PairRecord {
	var mean PairRecord
	if len(records) == 0 {
		return mean
	}
	mean.SeedID = records[0].SeedID
	for _, r := range records {
		mean.Hx += r.Hx
		mean.Hy += r.Hy
		mean.Hxy += r.Hxy
		mean.HyGivenX += r.HyGivenX
		mean.HxGivenY += r.HxGivenY
		mean.MI += r.MI
		mean.MINormalized += r.MINormalized
	}
	n := float64(len(records))
	mean.Hx /= n
	mean.Hy /= n
	mean.Hxy /= n
	mean.HyGivenX /= n
	mean.HxGivenY /= n
	mean.MI /= n
	mean.MINormalized /= n
	return mean
}
