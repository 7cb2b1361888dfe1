package cmd

// Config carries every runtime setting of the service, loaded from the
// environment by the entrypoint.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	OsrmURL        string
	OsrmTimeoutSec int
	OracleFallback bool

	Solver            string
	Scenario          string
	Seed              int64
	SolverDeadlineSec int
	ZoneRadiusKm      float64
	KMeansIterations  int

	GAPopulation     int
	GAGenerations    int
	GATournament     int
	GAMutationRate   float64
	GAEliteRate      float64
	GAImmigrantsRate float64

	StationsFile string

	KafkaHost  string
	KafkaTopic string

	CronSpec string
}
