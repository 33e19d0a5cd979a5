package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	sreCommon "github.com/devopsext/sre/common"
	"github.com/devopsext/utils"
	"github.com/pkg/errors"
	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"

	"github.com/netopsext/netbox-sync/common"
)

type InventoryOptions struct {
	Path string
}

// Inventory reads SNMP targets from a TOML or YAML file and reloads it
// when the file changes on disk.
type Inventory struct {
	options InventoryOptions
	logger  sreCommon.Logger
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	cached []common.Target
	stale  bool
}

type inventoryFile struct {
	Defaults common.Target   `toml:"defaults" yaml:"defaults"`
	Targets  []common.Target `toml:"targets" yaml:"targets"`
}

func (i *Inventory) Name() string {
	return "Inventory"
}

func (i *Inventory) Targets() ([]common.Target, error) {

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.cached != nil && !i.stale {
		return i.cached, nil
	}

	targets, err := loadInventory(i.options.Path)
	if err != nil {
		return nil, err
	}
	i.cached = targets
	i.stale = false
	i.logger.Debug("Inventory loaded %d targets from %s", len(targets), i.options.Path)
	return targets, nil
}

func loadInventory(path string) ([]common.Target, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "inventory read %s", path)
	}

	var inv inventoryFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &inv); err != nil {
			return nil, errors.Wrapf(err, "inventory decode %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &inv); err != nil {
			return nil, errors.Wrapf(err, "inventory decode %s", path)
		}
	default:
		return nil, errors.Errorf("inventory %s: unsupported format", path)
	}

	var r []common.Target
	for _, t := range inv.Targets {
		if t.Host == "" {
			continue
		}
		r = append(r, common.MergeTargetDefaults(t, inv.Defaults))
	}
	return r, nil
}

func (i *Inventory) watch() {

	for {
		select {
		case event, ok := <-i.watcher.Events:
			if !ok {
				return
			}
			i.logger.Debug("Inventory watcher event (%d): %s", event.Op, event.Name)
			if (event.Op == fsnotify.Create) || (event.Op == fsnotify.Write) || (event.Op == fsnotify.Chmod) {
				i.mu.Lock()
				i.stale = true
				i.mu.Unlock()
			}
		case err, ok := <-i.watcher.Errors:
			if !ok {
				return
			}
			i.logger.Error("Inventory watcher has error: %s", err)
		}
	}
}

func NewInventory(options InventoryOptions, observability *common.Observability) *Inventory {

	logger := observability.Logs()

	if utils.IsEmpty(options.Path) {
		logger.Debug("Inventory has no path. Skipped")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("Inventory couldn't create watcher: %s", err)
		return nil
	}

	i := &Inventory{
		options: options,
		logger:  logger,
		watcher: watcher,
		stale:   true,
	}

	if err := watcher.Add(filepath.Dir(options.Path)); err != nil {
		logger.Error("Inventory couldn't watch %s due to error: %s", options.Path, err)
	}
	go i.watch()

	return i
}
