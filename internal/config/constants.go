package config

const (
	// DefaultRemoteBaseURL is the books resource of the public fake REST API.
	DefaultRemoteBaseURL = "https://fakerestapi.azurewebsites.net/api/v1/Books"

	// DefaultStoreDatabasePath is where the bundled book store keeps its records.
	DefaultStoreDatabasePath = "./booktable-store.db"

	// DefaultSessionDBPath keeps sessions in a shared in-memory sqlite database.
	DefaultSessionDBPath = "file:sessions?mode=memory&cache=shared"

	// DefaultExportBaseName is the base file name of UI downloads.
	DefaultExportBaseName = "books-list"
)
