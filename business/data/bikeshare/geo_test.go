package bikeshare

import (
	"math"
	"testing"
)

func Test_Distance(t *testing.T) {
	type args struct {
		lat1 float64
		lon1 float64
		lat2 float64
		lon2 float64
	}
	tests := []struct {
		name string
		args args
		want float64
	}{
		{
			name: "zero distance for identical points",
			args: args{lat1: 52.52, lon1: 13.405, lat2: 52.52, lon2: 13.405},
			want: 0,
		},
		{
			name: "one thousandth of a degree of longitude at the equator",
			args: args{lat1: 0, lon1: 0, lat2: 0, lon2: 0.001},
			want: 111.195,
		},
		{
			name: "one thousandth of a degree of latitude at the equator",
			args: args{lat1: 0, lon1: 0, lat2: 0.001, lon2: 0},
			want: 111.195,
		},
		{
			name: "longitude shrinks with latitude",
			args: args{lat1: 60, lon1: 0, lat2: 60, lon2: 0.001},
			want: 55.597,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.args.lat1, tt.args.lon1, tt.args.lat2, tt.args.lon2)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("Distance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_DistanceIsSymmetric(t *testing.T) {
	got1 := Distance(52.52, 13.405, 52.53, 13.42)
	got2 := Distance(52.53, 13.42, 52.52, 13.405)
	if got1 != got2 {
		t.Errorf("Distance() is not symmetric: %v != %v", got1, got2)
	}
	if got1 <= 0 {
		t.Errorf("Distance() between distinct points should be positive, got %v", got1)
	}
}
