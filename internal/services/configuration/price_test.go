package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePrice(t *testing.T) {
	tests := []struct {
		name    string
		tariff  string
		country string
		months  int
		want    int
		wantErr bool
	}{
		{name: "basic russia one month", tariff: TariffBasic, country: "Russia", months: 1, want: 200},
		{name: "basic poland three months", tariff: TariffBasic, country: "Poland", months: 3, want: 900},
		{name: "basic usa six months", tariff: TariffBasic, country: "USA", months: 6, want: 2400},
		{name: "premium denmark one month", tariff: TariffPremium, country: "Denmark", months: 1, want: 560},
		{name: "premium uk six months", tariff: TariffPremium, country: "UK", months: 6, want: 3480},
		// годовая цена фиксированная, а не base*12
		{name: "basic annual flat price", tariff: TariffBasic, country: "Russia", months: 12, want: 2000},
		{name: "premium annual flat price", tariff: TariffPremium, country: "USA", months: 12, want: 4000},
		{name: "unknown tariff", tariff: "Люкс сервер", country: "Russia", months: 1, wantErr: true},
		{name: "unknown country", tariff: TariffBasic, country: "Atlantis", months: 1, wantErr: true},
		{name: "unsupported duration", tariff: TariffBasic, country: "Russia", months: 5, wantErr: true},
		{name: "zero months", tariff: TariffBasic, country: "Russia", months: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputePrice(tt.tariff, tt.country, tt.months)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownTariff)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputePrice_AnnualIsDiscounted(t *testing.T) {
	annual, err := ComputePrice(TariffBasic, "Russia", 12)
	require.NoError(t, err)
	monthly, err := ComputePrice(TariffBasic, "Russia", 1)
	require.NoError(t, err)
	assert.Less(t, annual, monthly*12)
}
