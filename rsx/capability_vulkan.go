//go:build !headless

// capability_vulkan.go - Host GPU probe for integer texture sampling

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package rsx

import (
	"fmt"
	"sync"

	vk "github.com/goki/vulkan"
)

var (
	probeOnce   sync.Once
	probeResult bool
	probeDetail string
)

// probeIntegerTextures reports whether the host GPU can sample R16_UINT
// images. Hosts without a Vulkan loader or device report true.
func probeIntegerTextures() bool {
	probeOnce.Do(func() {
		probeResult, probeDetail = probeVulkan()
	})
	return probeResult
}

// ProbeDetail describes the outcome of the capability probe
func ProbeDetail() string {
	probeIntegerTextures()
	return probeDetail
}

func probeVulkan() (bool, string) {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return true, fmt.Sprintf("no vulkan loader (%v)", err)
	}
	if err := vk.Init(); err != nil {
		return true, fmt.Sprintf("vulkan init failed (%v)", err)
	}

	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   "IntuitionRSX\x00",
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        "rsx\x00",
		ApiVersion:         vk.MakeVersion(1, 0, 0),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &appInfo,
	}

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, nil, &instance); res != vk.Success {
		return true, fmt.Sprintf("vulkan instance creation failed (%d)", res)
	}
	defer vk.DestroyInstance(instance, nil)

	if err := vk.InitInstance(instance); err != nil {
		return true, fmt.Sprintf("vulkan instance init failed (%v)", err)
	}

	var count uint32
	if res := vk.EnumeratePhysicalDevices(instance, &count, nil); res != vk.Success || count == 0 {
		return true, "no vulkan physical device"
	}
	devices := make([]vk.PhysicalDevice, count)
	if res := vk.EnumeratePhysicalDevices(instance, &count, devices); res != vk.Success {
		return true, "vulkan device enumeration failed"
	}

	for _, dev := range devices {
		var props vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(dev, vk.FormatR16Uint, &props)
		props.Deref()
		if props.OptimalTilingFeatures&vk.FormatFeatureFlags(vk.FormatFeatureSampledImageBit) != 0 {
			return true, "R16_UINT sampling supported"
		}
	}
	return false, "R16_UINT sampling unsupported, using normalized sampling"
}
