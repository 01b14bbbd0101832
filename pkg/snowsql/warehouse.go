package snowsql

import (
	"context"

	"github.com/pingcap-inc/sfadapter/pkg/coreinterfaces"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

// requestedWarehouse is the model's warehouse, or the run's default.
func (a *SnowflakeAdapter) requestedWarehouse(config coreinterfaces.ModelConfig) string {
	if config.Warehouse != "" {
		return config.Warehouse
	}
	return a.config.Warehouse
}

// CurrentWarehouse returns the warehouse active in the session.
func (a *SnowflakeAdapter) CurrentWarehouse(ctx context.Context) (string, error) {
	_, table, err := a.exec.Execute(ctx, currentWarehouseQuery, true)
	if err != nil {
		return "", errors.Trace(err)
	}
	if table == nil || len(table.Rows) == 0 || len(table.Rows[0]) == 0 {
		return "", ErrWarehouseUnknown.GenWithStackByArgs(currentWarehouseQuery)
	}
	warehouse, ok := asString(table.Rows[0][0])
	if !ok || warehouse == "" {
		return "", ErrWarehouseUnknown.GenWithStackByArgs(currentWarehouseQuery)
	}
	return warehouse, nil
}

func (a *SnowflakeAdapter) useWarehouse(ctx context.Context, warehouse string) error {
	sql, err := GenUseWarehouse(warehouse)
	if err != nil {
		return errors.Trace(err)
	}
	if _, _, err := a.exec.Execute(ctx, sql, false); err != nil {
		return errors.Trace(err)
	}
	a.metrics.ObserveWarehouseSwitch(warehouse)
	return nil
}

// PreModelHook switches the session to the model's warehouse. It returns
// nil when the model runs on the default warehouse, otherwise a token that
// PostModelHook uses to switch back.
func (a *SnowflakeAdapter) PreModelHook(ctx context.Context, config coreinterfaces.ModelConfig) (*coreinterfaces.WarehouseToken, error) {
	warehouse := a.requestedWarehouse(config)
	if warehouse == a.config.Warehouse {
		return nil, nil
	}

	previous, err := a.CurrentWarehouse(ctx)
	if err != nil {
		a.metrics.ObserveError("pre_model_hook")
		return nil, errors.Trace(err)
	}
	if err := a.useWarehouse(ctx, warehouse); err != nil {
		a.metrics.ObserveError("pre_model_hook")
		return nil, errors.Annotatef(err, "failed to use warehouse %s", warehouse)
	}
	a.logger.Debug("Switched warehouse for model",
		zap.String("previous", previous),
		zap.String("warehouse", warehouse))
	return coreinterfaces.NewWarehouseToken(previous), nil
}

// PostModelHook switches the session back to the warehouse recorded in
// token. A nil token means PreModelHook did not switch, and nothing is done.
func (a *SnowflakeAdapter) PostModelHook(ctx context.Context, config coreinterfaces.ModelConfig, token *coreinterfaces.WarehouseToken) error {
	if token == nil {
		return nil
	}
	previous, ok := token.Restore()
	if !ok {
		return ErrWarehouseTokenReused.GenWithStackByArgs(previous)
	}
	if err := a.useWarehouse(ctx, previous); err != nil {
		a.metrics.ObserveError("post_model_hook")
		return errors.Annotatef(err, "failed to restore warehouse %s", previous)
	}
	a.logger.Debug("Restored warehouse after model",
		zap.String("warehouse", previous),
		zap.String("model-warehouse", a.requestedWarehouse(config)))
	return nil
}
