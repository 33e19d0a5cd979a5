package sink

import (
	"fmt"
	"time"

	"github.com/allegro/bigcache"
	sreCommon "github.com/devopsext/sre/common"
	toolsRender "github.com/devopsext/tools/render"
	"github.com/devopsext/utils"

	"github.com/netopsext/netbox-sync/common"
	"github.com/netopsext/netbox-sync/netbox"
)

type NetboxOptions struct {
	Providers        []string
	CacheTTL         time.Duration
	VLANNameTemplate string
}

// Netbox pushes discovered VLANs and prefixes into NetBox. Creation is
// idempotent: objects already present are skipped, and a TTL cache keeps
// repeated cycles from re-querying objects this instance ensured.
type Netbox struct {
	options       NetboxOptions
	logger        sreCommon.Logger
	observability *common.Observability
	client        *netbox.Client
	cache         *bigcache.BigCache
	nameTemplate  *toolsRender.TextTemplate
}

func (n *Netbox) Name() string {
	return "Netbox"
}

func (n *Netbox) Providers() []string {
	return n.options.Providers
}

func (n *Netbox) ensured(key string) bool {

	if n.cache == nil {
		return false
	}
	_, err := n.cache.Get(key)
	return err == nil
}

func (n *Netbox) remember(key string) {

	if n.cache == nil {
		return
	}
	if err := n.cache.Set(key, []byte("1")); err != nil {
		n.logger.Warn("Netbox couldn't cache %s: %s", key, err)
	}
}

func (n *Netbox) vlanName(r *common.Report, v common.VLAN) string {

	if n.nameTemplate == nil {
		return v.Name
	}
	name, err := common.RenderTemplate(n.nameTemplate, v.Name, map[string]interface{}{
		"interface": v.Name,
		"vid":       v.VID,
		"device":    r.Target.Name,
	})
	if err != nil {
		n.logger.Error("Netbox couldn't render VLAN name for %s: %s", v.Name, err)
		return v.Name
	}
	return name
}

func (n *Netbox) ensureVLAN(r *common.Report, v common.VLAN) {

	key := fmt.Sprintf("vlan/%d/%d", n.client.SiteID(), v.VID)
	if n.ensured(key) {
		return
	}

	exists, err := n.client.VLANExists(v.VID)
	if err != nil {
		n.logger.Error("Netbox VLAN %d lookup failed: %s", v.VID, err)
		return
	}
	if exists {
		n.logger.Debug("Netbox VLAN %d already exists. Skipped", v.VID)
		n.remember(key)
		return
	}

	if _, err := n.client.CreateVLAN(v.VID, n.vlanName(r, v)); err != nil {
		n.logger.Error("Netbox VLAN %d create failed: %s", v.VID, err)
		return
	}
	n.logger.Info("Netbox VLAN %d added", v.VID)
	n.remember(key)
}

func (n *Netbox) ensurePrefix(p common.Prefix) {

	key := fmt.Sprintf("prefix/%s", p.Prefix)
	if n.ensured(key) {
		return
	}

	exists, err := n.client.PrefixExists(p.Prefix)
	if err != nil {
		n.logger.Error("Netbox prefix %s lookup failed: %s", p.Prefix, err)
		return
	}
	if exists {
		n.logger.Debug("Netbox prefix %s already exists. Skipped", p.Prefix)
		n.remember(key)
		return
	}

	if _, err := n.client.CreatePrefix(p.Prefix); err != nil {
		n.logger.Error("Netbox prefix %s create failed: %s", p.Prefix, err)
		return
	}
	n.logger.Info("Netbox prefix %s added", p.Prefix)
	n.remember(key)
}

func (n *Netbox) Process(d common.Discovery, so common.SinkObject) {

	m := so.Map()
	n.logger.Debug("Netbox has to process %d objects from %s...", len(m), d.Name())

	for k, v := range m {

		r, ok := v.(*common.Report)
		if !ok {
			n.logger.Debug("Netbox has no support for %s", k)
			continue
		}

		for _, vlan := range r.VLANs {
			n.ensureVLAN(r, vlan)
		}
		for _, prefix := range r.Prefixes {
			n.ensurePrefix(prefix)
		}
	}
}

func NewNetbox(options NetboxOptions, client *netbox.Client, observability *common.Observability) *Netbox {

	logger := observability.Logs()

	if client == nil {
		logger.Debug("Netbox sink has no client. Skipped")
		return nil
	}

	options.Providers = common.RemoveEmptyStrings(options.Providers)

	ttl := options.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cacheConfig := bigcache.DefaultConfig(ttl)
	cacheConfig.CleanWindow = 1 * time.Minute
	cache, err := bigcache.NewBigCache(cacheConfig)
	if err != nil {
		logger.Error(err)
		return nil
	}

	var nameTemplate *toolsRender.TextTemplate
	if !utils.IsEmpty(options.VLANNameTemplate) {
		nameTemplate, err = toolsRender.NewTextTemplate(toolsRender.TemplateOptions{
			Content: options.VLANNameTemplate,
			Name:    "netbox-vlan-name",
		}, observability)
		if err != nil {
			logger.Error(err)
			return nil
		}
	}

	return &Netbox{
		options:       options,
		logger:        logger,
		observability: observability,
		client:        client,
		cache:         cache,
		nameTemplate:  nameTemplate,
	}
}
