// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify delivers waitlist promotion notices.

LogNotifier writes a log line per promoted user. KafkaNotifier publishes a
JSON PromotionEvent per user to a Kafka topic, keyed by meeting ID:

	n := notify.NewKafkaNotifier([]string{"localhost:9092"}, "meeting-promotions")
	defer n.Close()

Callers treat delivery failure as non-fatal: the promotion has already
been committed when NotifyPromoted runs.
*/
package notify
