package backtest

import (
	"errors"

	"battery-savings/internal/model"
)

// ErrNoQuarters is returned when there is nothing to simulate.
var ErrNoQuarters = errors.New("no quarters")

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run replays a metered quarter-hour series with a battery added.
// It is a single forward pass: state of charge carries from one quarter to
// the next and no quarter looks ahead.
func (e *Engine) Run(series []model.QuarterRecord, params model.BatteryParams) (*Result, error) {
	batt, err := model.NewBattery(params)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, ErrNoQuarters
	}

	res := &Result{
		Ledger:     make([]LedgerRow, 0, len(series)),
		ReserveKWh: params.ReserveKWh(),
		InitialSOC: batt.State.SOCKWh,
	}

	for idx, q := range series {
		r := batt.ApplyQuarter(q.ImportKWh, q.ExportKWh)

		res.OriginalImportKWh += r.ImportKWh
		res.OriginalExportKWh += r.ExportKWh
		res.NewImportKWh += r.NewImportKWh
		res.NewExportKWh += r.NewExportKWh
		res.ChargedKWh += r.ChargeKWh
		res.DischargedKWh += r.DischargeKWh

		res.Ledger = append(res.Ledger, LedgerRow{
			Index:     idx,
			Timestamp: q.Timestamp,

			Action: model.ActionFromEnergy(r.ChargeKWh, r.DischargeKWh),

			ImportKWh:    r.ImportKWh,
			ExportKWh:    r.ExportKWh,
			NewImportKWh: r.NewImportKWh,
			NewExportKWh: r.NewExportKWh,

			ChargeKWh:    r.ChargeKWh,
			DischargeKWh: r.DischargeKWh,

			SOCStartKWh: r.SOCStartKWh,
			SOCEndKWh:   r.SOCEndKWh,
		})
	}

	res.FinalSOC = batt.State.SOCKWh
	return res, nil
}
