package main

import (
	"expvar"
	"testing"
	"time"
)

func waitForVar(t *testing.T, name string, expected int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v := expvar.Get(name).(*expvar.Int).Value(); v == expected {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("Variable %s never reached %d, got %d",
		name, expected, expvar.Get(name).(*expvar.Int).Value())
}

func TestStatsUpdater(t *testing.T) {
	globals.statsUpdate = make(chan *varUpdate, 16)
	go statsUpdater()
	defer statsShutdown()

	statsRegisterInt("TestWorkerID")
	statsRegisterInt("TestRequests")

	// Gauge: the last set value wins.
	statsSet("TestWorkerID", 3)
	waitForVar(t, "TestWorkerID", 3)
	statsSet("TestWorkerID", 7)
	waitForVar(t, "TestWorkerID", 7)

	// Counter: increments accumulate, decrements apply.
	statsInc("TestRequests", 2)
	statsInc("TestRequests", 1)
	statsInc("TestRequests", -1)
	waitForVar(t, "TestRequests", 2)
}
