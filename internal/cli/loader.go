package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/drillkit/internal/drillconfig"
	"github.com/roach88/drillkit/internal/execution"
	"github.com/roach88/drillkit/internal/model"
	"github.com/roach88/drillkit/internal/predicate"
)

// CLI error codes. Config load errors keep the drillconfig codes.
const (
	ErrCodeInvalidInput = "E020" // input document missing or malformed
	ErrCodeJournal      = "E030" // journal could not be opened or written
	ErrCodeNotDrillable = "E040" // no header of the path is drillable
	ErrCodeUnknownVis   = "E041" // visualization type without drill support
	ErrCodeBridge       = "E050" // bridge stream could not be read or written
	ErrCodeTestFailed   = "E_TEST_FAILED"
)

// inputs are the documents a command loaded.
type inputs struct {
	facade  *execution.Facade
	config  *drillconfig.LoadResult
	headers []model.MappingHeader
}

// predicateContext evaluates predicates against the loaded facade. The
// config workspace wins over the facade workspace.
func (in *inputs) predicateContext() predicate.Context {
	ctx := predicate.Context{}
	if in.facade != nil {
		ctx.Facade = in.facade
		ctx.Workspace = in.facade.Workspace()
	}
	if in.config != nil && in.config.Config.Workspace != "" {
		ctx.Workspace = in.config.Config.Workspace
	}
	return ctx
}

func loadFacade(f *OutputFormatter, path string) (*execution.Facade, error) {
	facade, err := execution.Load(path)
	if err != nil {
		return nil, reportError(f, ErrCodeInvalidInput, fmt.Sprintf("loading facade %s: %v", path, err))
	}
	f.VerboseLog("Loaded facade %s (%d measure(s), %d attribute(s))", path, len(facade.Measures()), len(facade.Attributes()))
	return facade, nil
}

func loadConfig(f *OutputFormatter, dir string) (*drillconfig.LoadResult, error) {
	result, err := drillconfig.LoadDir(dir)
	if err != nil {
		var loadErr *drillconfig.LoadError
		if errors.As(err, &loadErr) {
			return nil, reportError(f, loadErr.Code, loadErr.Error())
		}
		return nil, reportError(f, drillconfig.ErrCodeGeneric, err.Error())
	}
	f.VerboseLog("Found %d CUE file(s) in %s, %d drill item(s)", result.FileCount, dir, len(result.Config.Items))
	return result, nil
}

func loadHeaders(f *OutputFormatter, path string) ([]model.MappingHeader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, reportError(f, ErrCodeInvalidInput, fmt.Sprintf("reading headers: %v", err))
	}
	headers, err := model.UnmarshalHeaders(data)
	if err != nil {
		return nil, reportError(f, ErrCodeInvalidInput, fmt.Sprintf("decoding headers %s: %v", path, err))
	}
	f.VerboseLog("Loaded %d header(s) from %s", len(headers), path)
	return headers, nil
}

// loadInputs loads the facade, config directory and header path shared by
// match and drill.
func loadInputs(f *OutputFormatter, facadePath, configDir, headersPath string) (*inputs, error) {
	facade, err := loadFacade(f, facadePath)
	if err != nil {
		return nil, err
	}
	config, err := loadConfig(f, configDir)
	if err != nil {
		return nil, err
	}
	headers, err := loadHeaders(f, headersPath)
	if err != nil {
		return nil, err
	}
	return &inputs{facade: facade, config: config, headers: headers}, nil
}

// reportError prints a command error and returns it with the command
// error exit code.
func reportError(f *OutputFormatter, code, message string) error {
	_ = f.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
