package factors

import (
	"math"

	"github.com/KRupuwu/Financial-Models/data"
	"github.com/KRupuwu/Financial-Models/returns"
)

// TableFromMarket synthesizes a single-factor table from a market index
// series for CAPM-style runs without a factor file. MktRF is the market
// return minus the daily risk-free rate; SMB and HML are marked missing so
// only the CAPM model can consume the table.
func TableFromMarket(market data.PriceSeries, rfDaily float64, method returns.Method) (data.FactorTable, error) {
	rets, err := returns.Estimate(market.Prices(), method)
	if err != nil {
		return nil, err
	}
	dates := market.Dates()[1:]
	table := make(data.FactorTable, len(rets))
	for i, r := range rets {
		table[i] = data.FactorRow{
			Date:  dates[i],
			MktRF: r - rfDaily,
			SMB:   math.NaN(),
			HML:   math.NaN(),
			RF:    rfDaily,
		}
	}
	return table, nil
}
