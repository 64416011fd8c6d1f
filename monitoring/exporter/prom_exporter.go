package main

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromExporter collects metrics in Prometheus format from a scoring server.
type PromExporter struct {
	address   string
	timeout   time.Duration
	namespace string

	scraper *Scraper

	up                *prometheus.Desc
	version           *prometheus.Desc
	requestsTotal     *prometheus.Desc
	requestsLive      *prometheus.Desc
	requestsOK        *prometheus.Desc
	requestsMalformed *prometheus.Desc
	requestsForbidden *prometheus.Desc
	requestsNotFound  *prometheus.Desc
	requestsInvalid   *prometheus.Desc
	requestsInternal  *prometheus.Desc
	malloced          *prometheus.Desc
}

// NewPromExporter returns an initialized Prometheus exporter.
func NewPromExporter(server, namespace string, timeout time.Duration, scraper *Scraper) *PromExporter {
	return &PromExporter{
		address:   server,
		timeout:   timeout,
		namespace: namespace,
		scraper:   scraper,
		up: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "up"),
			"If the scoring server instance is reachable.",
			nil,
			nil,
		),
		version: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "version"),
			"The version of this scoring server instance.",
			nil,
			nil,
		),
		requestsTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requests_total"),
			"Total number of API requests since instance start.",
			nil,
			nil,
		),
		requestsLive: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requests_live_count"),
			"Number of requests currently being processed.",
			nil,
			nil,
		),
		requestsOK: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requests_ok"),
			"Number of requests answered with code 200.",
			nil,
			nil,
		),
		requestsMalformed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requests_malformed"),
			"Number of requests answered with code 400.",
			nil,
			nil,
		),
		requestsForbidden: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requests_forbidden"),
			"Number of requests answered with code 403.",
			nil,
			nil,
		),
		requestsNotFound: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requests_not_found"),
			"Number of requests answered with code 404.",
			nil,
			nil,
		),
		requestsInvalid: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requests_invalid"),
			"Number of requests answered with code 422.",
			nil,
			nil,
		),
		requestsInternal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requests_internal"),
			"Number of requests answered with code 500.",
			nil,
			nil,
		),
		malloced: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "malloced_bytes"),
			"Number of bytes of memory allocated and in use.",
			nil,
			nil,
		),
	}
}

// Describe describes all the metrics exported by the scoring exporter. It
// implements prometheus.Collector.
func (e *PromExporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.up
	ch <- e.version
	ch <- e.requestsTotal
	ch <- e.requestsLive
	ch <- e.requestsOK
	ch <- e.requestsMalformed
	ch <- e.requestsForbidden
	ch <- e.requestsNotFound
	ch <- e.requestsInvalid
	ch <- e.requestsInternal
	ch <- e.malloced
}

// Collect fetches statistics from the configured scoring server, and
// delivers them as Prometheus metrics. It implements prometheus.Collector.
func (e *PromExporter) Collect(ch chan<- prometheus.Metric) {
	up := float64(1)
	if stats, err := e.scraper.Scrape(); err != nil {
		log.Println("Failed to fetch or parse response", err)
		up = 0
	} else {
		if err := e.parseStats(ch, stats); err != nil {
			up = 0
		}
	}

	ch <- prometheus.MustNewConstMetric(e.up, prometheus.GaugeValue, up)
}

func (e *PromExporter) parseStats(ch chan<- prometheus.Metric, stats map[string]interface{}) error {
	err := firstError(
		e.parseAndUpdate(ch, e.version, prometheus.GaugeValue, stats, "Version"),
		e.parseAndUpdate(ch, e.requestsTotal, prometheus.CounterValue, stats, "TotalRequests"),
		e.parseAndUpdate(ch, e.requestsLive, prometheus.GaugeValue, stats, "LiveRequests"),
		e.parseAndUpdate(ch, e.requestsOK, prometheus.CounterValue, stats, "RequestsOK"),
		e.parseAndUpdate(ch, e.requestsMalformed, prometheus.CounterValue, stats, "RequestsMalformed"),
		e.parseAndUpdate(ch, e.requestsForbidden, prometheus.CounterValue, stats, "RequestsForbidden"),
		e.parseAndUpdate(ch, e.requestsNotFound, prometheus.CounterValue, stats, "RequestsNotFound"),
		e.parseAndUpdate(ch, e.requestsInvalid, prometheus.CounterValue, stats, "RequestsInvalid"),
		e.parseAndUpdate(ch, e.requestsInternal, prometheus.CounterValue, stats, "RequestsInternal"),
		e.parseAndUpdate(ch, e.malloced, prometheus.GaugeValue, stats, "memstats.Alloc"),
	)

	return err
}

func (e *PromExporter) parseAndUpdate(ch chan<- prometheus.Metric, desc *prometheus.Desc, valueType prometheus.ValueType,
	stats map[string]interface{}, key string) error {
	if v, err := parseMetric(stats, key); err == nil {
		ch <- prometheus.MustNewConstMetric(desc, valueType, v)
		return nil
	} else {
		return err
	}
}

func firstError(errs ...error) error {
	for _, v := range errs {
		if v != nil {
			return v
		}
	}
	return nil
}
