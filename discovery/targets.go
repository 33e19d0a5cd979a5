package discovery

import (
	sreCommon "github.com/devopsext/sre/common"
	"github.com/devopsext/utils"

	"github.com/netopsext/netbox-sync/common"
)

// TargetSource supplies SNMP targets for a polling cycle.
type TargetSource interface {
	Targets() ([]common.Target, error)
	Name() string
}

type StaticOptions struct {
	Host    string
	Targets string
}

type Static struct {
	options StaticOptions
	logger  sreCommon.Logger
}

func (s *Static) Name() string {
	return "Static"
}

func (s *Static) Targets() ([]common.Target, error) {

	var r []common.Target
	if !utils.IsEmpty(s.options.Host) {
		r = append(r, common.Target{Name: s.options.Host, Host: s.options.Host})
	}
	r = append(r, common.ParseTargets(s.options.Targets)...)
	return r, nil
}

func NewStatic(options StaticOptions, observability *common.Observability) *Static {

	logger := observability.Logs()

	if utils.IsEmpty(options.Host) && utils.IsEmpty(options.Targets) {
		logger.Debug("Static has no host or targets. Skipped")
		return nil
	}

	return &Static{
		options: options,
		logger:  logger,
	}
}
