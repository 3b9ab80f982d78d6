package utils

import (
	"log"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

var (
	systemCPUUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_cpu_usage_percent",
		Help: "Current CPU usage percentage",
	})

	systemMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_memory_usage_percent",
		Help: "Current memory usage percentage",
	})

	goroutineCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Current number of goroutines",
	})
)

// GetCPUUsage returns the current CPU usage as a percentage
func GetCPUUsage() float64 {
	percentage, err := cpu.Percent(time.Second, false)
	if err != nil {
		log.Printf("Error getting CPU usage: %v", err)
		return 0
	}
	if len(percentage) > 0 {
		return percentage[0]
	}
	return 0
}

// StartSystemMetricsCollector samples host metrics on the given interval.
func StartSystemMetricsCollector(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			systemCPUUsage.Set(GetCPUUsage())

			if vm, err := mem.VirtualMemory(); err == nil {
				systemMemoryUsage.Set(vm.UsedPercent)
			} else {
				log.Printf("Error getting memory usage: %v", err)
			}

			goroutineCount.Set(float64(runtime.NumGoroutine()))
		}
	}()
}
