package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"optiroute/cmd"
	"optiroute/internal/adapters/out/postgres/courierrepo"
	"optiroute/internal/adapters/out/postgres/orderrepo"
	"optiroute/internal/adapters/out/stations"
	"optiroute/internal/core/domain/model/station"
)

func main() {
	config := getConfig()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := openDatabase(config)

	var rechargeStations []*station.RechargeStation
	if config.StationsFile != "" {
		var err error
		rechargeStations, err = stations.Load(config.StationsFile)
		if err != nil {
			log.Fatalf("Error loading station registry: %v", err)
		}
	}

	root := cmd.NewCompositionRoot(config, gormDB, rechargeStations, logger)

	if jobManager := root.CreateJobManager(); jobManager != nil {
		if err := jobManager.StartAll(); err != nil {
			log.Fatalf("Error starting jobs: %v", err)
		}
		defer jobManager.StopAll()
	}

	startWebServer(&root, config.HTTPPort)
}

func getConfig() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:   envString("HTTP_PORT", "8080"),
		DBHost:     envString("DB_HOST", "localhost"),
		DBPort:     envString("DB_PORT", "5432"),
		DBUser:     envString("DB_USER", "postgres"),
		DBPassword: envString("DB_PASSWORD", "postgres"),
		DBName:     envString("DB_NAME", "optiroute"),
		DBSslMode:  envString("DB_SSLMODE", "disable"),

		OsrmURL:        envString("OSRM_URL", "http://localhost:5000"),
		OsrmTimeoutSec: envInt("OSRM_TIMEOUT_SEC", 15),
		OracleFallback: envBool("ORACLE_FALLBACK", true),

		Solver:            envString("SOLVER", "multi_criteria"),
		Scenario:          envString("SCENARIO", "normal"),
		Seed:              int64(envInt("SEED", 42)),
		SolverDeadlineSec: envInt("BB_DEADLINE_SEC", 10),
		ZoneRadiusKm:      envFloat("ZONE_RADIUS_KM", 5.0),
		KMeansIterations:  envInt("KMEANS_ITERS", 10),

		GAPopulation:     envInt("GA_POPULATION", 80),
		GAGenerations:    envInt("GA_GENERATIONS", 200),
		GATournament:     envInt("GA_TOURNAMENT", 4),
		GAMutationRate:   envFloat("GA_MUTATION_RATE", 0.18),
		GAEliteRate:      envFloat("GA_ELITE_RATE", 0.12),
		GAImmigrantsRate: envFloat("GA_IMMIGRANTS_RATE", 0.06),

		StationsFile: envString("STATIONS_FILE", ""),

		KafkaHost:  envString("KAFKA_HOST", ""),
		KafkaTopic: envString("KAFKA_TOPIC", ""),

		CronSpec: envString("CRON_SPEC", ""),
	}
}

func openDatabase(config cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&orderrepo.OrderDTO{}, &courierrepo.CourierDTO{}); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return gormDB
}

func startWebServer(root *cmd.CompositionRoot, port string) {
	e := echo.New()
	root.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid integer for %s: %q", key, v)
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("Invalid number for %s: %q", key, v)
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("Invalid boolean for %s: %q", key, v)
	}
	return b
}
