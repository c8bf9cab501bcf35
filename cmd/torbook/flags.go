package main

import (
	"github.com/tomerlv/torbook/internal/domain"
)

func parseDateFlag(raw string) (*domain.Date, error) {
	parsed, err := domain.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseTimeFlag(raw string) (*domain.TimeOfDay, error) {
	parsed, err := domain.ParseTimeOfDay(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
