// Package mqtt publishes Vía Hogar events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - The event notifier used by the application controller
//
// # Topics
//
// All topics live under a configurable prefix (default "viahogar"):
//
//	viahogar/system/status                       retained online/offline status
//	viahogar/events/submission/{property_id}     new contact submission
//	viahogar/events/property/{property_id}       property created, updated or deleted
//
// Events are informational. A broker outage never fails an edit; the
// notifier's errors are logged by the caller.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	notifier := mqtt.NewNotifier(client, cfg.MQTT)
package mqtt
