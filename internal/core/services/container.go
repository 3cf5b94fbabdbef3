package services

import (
	"github.com/shiftwise/payroll_engine/internal/core/ports/providers"
	portsrepo "github.com/shiftwise/payroll_engine/internal/core/ports/repositories"
	portssvc "github.com/shiftwise/payroll_engine/internal/core/ports/services"
)

// Providers bundles the external subsystem implementations the services
// consume.
type Providers struct {
	Shifts   providers.ShiftSource
	Workers  providers.WorkerDirectory
	TaxRates providers.TaxRateSource
	Payments providers.PaymentProvider
	Notifier providers.Notifier
}

// NewServiceContainer wires the repositories, providers and settings into
// the full set of application services.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, provs Providers, settings Settings) *portssvc.ServiceContainer {
	events := NewEventDispatcher(provs.Notifier)
	return &portssvc.ServiceContainer{
		Run:        NewRunService(repos.RunRepo, repos.ItemRepo, provs.TaxRates, events, settings),
		Generation: NewGenerationService(repos.RunRepo, repos.ItemRepo, provs.Shifts, provs.TaxRates, settings),
		Payment:    NewPaymentService(repos.RunRepo, repos.ItemRepo, provs.Workers, provs.Payments, events, settings),
		Reporting:  NewReportingService(repos.RunRepo, repos.ItemRepo),
		Events:     events,
	}
}
