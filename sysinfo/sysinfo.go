package sysinfo

import (
	"sort"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/jaypipes/ghw"
	"github.com/shirou/gopsutil/v3/host"
)

// Info describes the machine the platform tests ran on.
type Info struct {
	Hostname        string
	Platform        string
	PlatformVersion string
	KernelVersion   string
	KernelArch      string
	PCIDevices      []PCIDevice
}

// PCIDevice ...
type PCIDevice struct {
	Address string
	Class   string
	Vendor  string
	Product string
}

// Collector gathers best effort system information.
type Collector interface {
	Collect() *Info
}

type collector struct {
	logger log.Logger
}

// NewCollector ...
func NewCollector(logger log.Logger) Collector {
	return &collector{logger: logger}
}

func (c collector) Collect() *Info {
	info := &Info{}

	hostInfo, err := host.Info()
	if err != nil {
		c.logger.Warnf("Failed to read host info: %s", err)
	} else {
		info.Hostname = hostInfo.Hostname
		info.Platform = hostInfo.Platform
		info.PlatformVersion = hostInfo.PlatformVersion
		info.KernelVersion = hostInfo.KernelVersion
		info.KernelArch = hostInfo.KernelArch
	}

	pciInfo, err := ghw.PCI()
	if err != nil {
		c.logger.Warnf("Failed to enumerate PCI devices: %s", err)
		return info
	}

	info.PCIDevices = pciDevices(pciInfo.Devices)

	c.logger.Debugf("Found %d PCI devices", len(info.PCIDevices))

	return info
}

func pciDevices(devices []*ghw.PCIDevice) []PCIDevice {
	var result []PCIDevice
	for _, device := range devices {
		if device == nil {
			continue
		}

		d := PCIDevice{Address: device.Address}
		if device.Class != nil {
			d.Class = strings.TrimSpace(device.Class.Name)
		}
		if device.Vendor != nil {
			d.Vendor = strings.TrimSpace(device.Vendor.Name)
		}
		if device.Product != nil {
			d.Product = strings.TrimSpace(device.Product.Name)
		}
		result = append(result, d)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})

	return result
}
