package snowsql

import "github.com/pingcap/errors"

var (
	// ErrWarehouseUnknown means the active warehouse could not be read, so
	// there is nothing to switch back to after the model.
	ErrWarehouseUnknown = errors.Normalize(
		"cannot determine the current warehouse: %s returned no value",
		errors.RFCCodeText("SFAdapter:WarehouseUnknown"))
	ErrWarehouseTokenReused = errors.Normalize(
		"warehouse token for %s has already been restored",
		errors.RFCCodeText("SFAdapter:WarehouseTokenReused"))
	ErrUnknownMacro = errors.Normalize(
		"macro %s is not registered",
		errors.RFCCodeText("SFAdapter:UnknownMacro"))
	ErrMacroArgument = errors.Normalize(
		"macro %s: %s",
		errors.RFCCodeText("SFAdapter:MacroArgument"))
	ErrCatalogColumnMissing = errors.Normalize(
		"result has no column %s, got %v",
		errors.RFCCodeText("SFAdapter:CatalogColumnMissing"))
)
