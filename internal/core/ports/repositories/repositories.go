package repositories

// RepositoryProvider bundles all repositories for injection into the service
// container.
type RepositoryProvider struct {
	RunRepo  RunRepositoryWithTx
	ItemRepo ItemRepositoryWithTx
}
