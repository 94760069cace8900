package denom

import (
	"errors"
	"testing"

	"github.com/govalues/decimal"
)

func TestDecompose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		values        ValueMap
		total         int64
		want          map[string]int64
		wantRemainder int64
		wantErr       error
	}{
		{
			name:   "PreDecimalSterling",
			values: ValueMap{"pound": 240, "shilling": 20, "penny": 1},
			total:  952,
			want: map[string]int64{
				"pound":    3,
				"shilling": 11,
				"penny":    12,
			},
		},
		{
			name:   "ExactSingleUnit",
			values: ValueMap{"crate": 500, "clip": 25, "round": 1},
			total:  500,
			want: map[string]int64{
				"crate": 1,
			},
		},
		{
			name:   "GreedyStaysSuboptimal",
			values: ValueMap{"kroener": 30, "talen": 7},
			total:  49,
			want: map[string]int64{
				"kroener": 1,
				"talen":   2,
			},
			wantRemainder: 5,
		},
		{
			name:   "LargerUnitSkippedNotZeroRecorded",
			values: ValueMap{"fifty": 50, "ten": 10},
			total:  40,
			want: map[string]int64{
				"ten": 4,
			},
		},
		{
			name:   "EqualValuesBrokenByName",
			values: ValueMap{"beta": 5, "alpha": 5},
			total:  12,
			want: map[string]int64{
				"alpha": 2,
			},
			wantRemainder: 2,
		},
		{
			name:   "ZeroTotal",
			values: ValueMap{"pound": 240, "penny": 1},
			total:  0,
			want:   map[string]int64{},
		},
		{
			name:          "NoUnitDivides",
			values:        ValueMap{"dozen": 12},
			total:         7,
			want:          map[string]int64{},
			wantRemainder: 7,
		},
		{
			name:    "NegativeTotal",
			values:  ValueMap{"penny": 1},
			total:   -1,
			wantErr: ErrNegativeTotal,
		},
		{
			name:    "EmptyValueMap",
			values:  ValueMap{},
			total:   10,
			wantErr: ErrNoUnits,
		},
		{
			name:    "NonPositiveUnitValue",
			values:  ValueMap{"penny": 0},
			total:   10,
			wantErr: ErrInvalidUnitValue,
		},
		{
			name:    "EmptyUnitName",
			values:  ValueMap{"": 5},
			total:   10,
			wantErr: ErrInvalidUnitName,
		},
		{
			name:    "ReservedUnitName",
			values:  ValueMap{RemainderKey: 5},
			total:   10,
			wantErr: ErrReservedUnitName,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := New().Decompose(tc.values, tc.total)

			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}

			if len(got.Counts) != len(tc.want) {
				t.Fatalf("unexpected counts: got %v want %v", got.Counts, tc.want)
			}
			for name, want := range tc.want {
				if got.Counts[name] != want {
					t.Fatalf("unexpected count for %s: got %d want %d", name, got.Counts[name], want)
				}
			}
			if got.Remainder != tc.wantRemainder {
				t.Fatalf("expected remainder %d, got %d", tc.wantRemainder, got.Remainder)
			}
			if got.HasRemainder() != (tc.wantRemainder > 0) {
				t.Fatalf("HasRemainder mismatch for remainder %d", got.Remainder)
			}
		})
	}
}

func TestDecomposeTotalRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values ValueMap
		total  int64
	}{
		{"CleanSterling", ValueMap{"pound": 240, "shilling": 20, "penny": 1}, 952},
		{"WithRemainder", ValueMap{"kroener": 30, "talen": 7}, 49},
		{"Zero", ValueMap{"pound": 240, "penny": 1}, 0},
		{"Coprime", ValueMap{"a": 23, "b": 31, "c": 53}, 500_000},
	}

	conv := New()
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			decomposed, err := conv.Decompose(tc.values, tc.total)
			if err != nil {
				t.Fatalf("Decompose returned error: %v", err)
			}

			sum, err := conv.Total(tc.values, decomposed.CountSet())
			if err != nil {
				t.Fatalf("Total returned error: %v", err)
			}

			remainder, err := decimal.New(decomposed.Remainder, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			reconstructed, err := sum.Add(remainder)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if want := decimal.MustNew(tc.total, 0); reconstructed.Cmp(want) != 0 {
				t.Fatalf("round trip mismatch: %s + %d != %d", sum, decomposed.Remainder, tc.total)
			}
		})
	}
}

func TestTotal(t *testing.T) {
	t.Parallel()

	values := ValueMap{"ten": 10, "five": 5, "one": 1}

	tests := []struct {
		name    string
		counts  CountSet
		want    decimal.Decimal
		wantErr error
	}{
		{
			name:   "IntegerCounts",
			counts: CountSet{"ten": decimal.MustNew(2, 0), "five": decimal.MustNew(6, 0)},
			want:   decimal.MustParse("50"),
		},
		{
			name:   "FractionalCounts",
			counts: CountSet{"ten": decimal.MustParse("2.5"), "one": decimal.MustParse("0.25")},
			want:   decimal.MustParse("25.25"),
		},
		{
			name:   "NegativeCounts",
			counts: CountSet{"five": decimal.MustNew(-2, 0)},
			want:   decimal.MustParse("-10"),
		},
		{
			name:   "EmptyCountSet",
			counts: CountSet{},
			want:   decimal.MustParse("0"),
		},
		{
			name:    "UnknownUnit",
			counts:  CountSet{"ghost": decimal.MustNew(5, 0)},
			wantErr: ErrUnknownUnit,
		},
	}

	conv := New()
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.Total(values, tc.counts)

			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}

			if got.Cmp(tc.want) != 0 {
				t.Fatalf("expected total %s, got %s", tc.want, got)
			}
		})
	}
}

func TestTotalUnknownUnitCarriesName(t *testing.T) {
	t.Parallel()

	_, err := New().Total(ValueMap{"ten": 10}, CountSet{"ghost": decimal.MustNew(1, 0)})

	var unknown *UnknownUnitError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownUnitError, got %v", err)
	}
	if unknown.Unit != "ghost" {
		t.Fatalf("expected unit ghost, got %q", unknown.Unit)
	}
}

func TestTotalValidatesValueMap(t *testing.T) {
	t.Parallel()

	if _, err := New().Total(nil, CountSet{}); !errors.Is(err, ErrNoUnits) {
		t.Fatalf("expected ErrNoUnits, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := Validate(ValueMap{"pound": 240, "penny": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(ValueMap{"pound": -1}); !errors.Is(err, ErrInvalidUnitValue) {
		t.Fatalf("expected ErrInvalidUnitValue, got %v", err)
	}
}

func BenchmarkDecomposeSterling(b *testing.B) {
	conv := New()
	values := ValueMap{"pound": 240, "shilling": 20, "penny": 1}
	for i := 0; i < b.N; i++ {
		if _, err := conv.Decompose(values, 952); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkTotal(b *testing.B) {
	conv := New()
	values := ValueMap{"pound": 240, "shilling": 20, "penny": 1}
	counts := CountSet{
		"pound":    decimal.MustNew(3, 0),
		"shilling": decimal.MustNew(11, 0),
		"penny":    decimal.MustNew(12, 0),
	}
	for i := 0; i < b.N; i++ {
		if _, err := conv.Total(values, counts); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
