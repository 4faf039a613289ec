package store

import "time"

// Merge helpers for the upsert paths. The rule everywhere: an incoming value
// only replaces a stored one when it carries information. Counters are the
// exception and always win, since the provider sends them on every payload.

func takeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func takeStringPtr(dst **string, src *string) {
	if src != nil {
		*dst = src
	}
}

func takeIntPtr(dst **int, src *int) {
	if src != nil {
		*dst = src
	}
}

func takeInt64Ptr(dst **int64, src *int64) {
	if src != nil {
		*dst = src
	}
}

func takeTimePtr(dst **time.Time, src *time.Time) {
	if src != nil {
		*dst = src
	}
}

func takeStrings(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}
