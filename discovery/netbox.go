package discovery

import (
	"strings"

	sreCommon "github.com/devopsext/sre/common"
	"github.com/devopsext/utils"

	"github.com/netopsext/netbox-sync/common"
	"github.com/netopsext/netbox-sync/netbox"
)

type NetboxDevicesOptions struct {
	Enabled bool
	Role    string
	Site    string
	Limit   int
}

// NetboxDevices turns active NetBox devices with a primary IP into SNMP
// targets, so the tool can poll whatever is already registered.
type NetboxDevices struct {
	client  *netbox.Client
	options NetboxDevicesOptions
	logger  sreCommon.Logger
}

func (n *NetboxDevices) Name() string {
	return "NetboxDevices"
}

func (n *NetboxDevices) Targets() ([]common.Target, error) {

	devices, err := n.client.GetDevices(netbox.DeviceListOptions{
		Role:  n.options.Role,
		Site:  n.options.Site,
		Limit: n.options.Limit,
	})
	if err != nil {
		return nil, err
	}

	var r []common.Target
	for _, v := range devices {

		ip, _, _ := strings.Cut(v.PrimaryIP.Address, "/")
		if utils.IsEmpty(ip) || utils.IsEmpty(v.Name) {
			continue
		}

		labels := make(common.Labels)
		labels["rack"] = v.Rack.Name
		labels["role"] = v.DeviceRole.Slug
		labels["site"] = v.Site.Slug
		labels["vendor"] = v.DeviceType.Manufacturer.Name

		r = append(r, common.Target{
			Name:   v.Name,
			Host:   ip,
			Labels: labels,
		})
	}
	n.logger.Debug("NetboxDevices found %d targets", len(r))
	return r, nil
}

func NewNetboxDevices(options NetboxDevicesOptions, client *netbox.Client, observability *common.Observability) *NetboxDevices {

	logger := observability.Logs()

	if !options.Enabled {
		logger.Debug("NetboxDevices is not enabled. Skipped")
		return nil
	}

	if client == nil {
		logger.Debug("NetboxDevices has no client. Skipped")
		return nil
	}

	return &NetboxDevices{
		client:  client,
		options: options,
		logger:  logger,
	}
}
