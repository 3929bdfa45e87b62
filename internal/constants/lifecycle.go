package constants

import "time"

const (
	// Growth
	MaxStage            = 7
	CompletionsPerStage = 7

	// Health
	MaxHealth               = 100
	InitialHealth           = 100
	RevivedHealth           = 50
	CompletionHealthRestore = 20
	HealthLossPerMissedDay  = 15
	DecayGracePeriodDays    = 1
)

const (
	// Entitlements
	FreeHabitLimitPerMonth = 10
	MaxAdTries             = 2
	AdsPerSlot             = 2
	AdDuration             = 10 * time.Second
)
