// Command routingd is the routing service's composition root: it loads
// configuration, wires the CP-SAT engine to the routing pipeline, and
// serves the HTTP transport.
package main

import (
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"example.com/vrp-routing-service/internal/api"
	"example.com/vrp-routing-service/internal/config"
	"example.com/vrp-routing-service/internal/platform/logging"
	"example.com/vrp-routing-service/internal/routing/cpengine/cpsat"
	"example.com/vrp-routing-service/internal/rpc"
)

func main() {
	log := logging.New()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	numSearchWorkers := config.GetInt32("SOLVE_SEARCH_WORKERS", 0)
	maxConflicts := config.GetInt64("SOLVE_MAX_NODES", 0)

	engine := &cpsat.Engine{
		NumSearchWorkers:     numSearchWorkers,
		MaxNumberOfConflicts: maxConflicts,
	}
	service := rpc.New(engine)
	router := api.NewRouter(service, log)

	// WriteTimeout is generous since a routing solve can legitimately run
	// for the full time limit the caller requests.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("routingd listening addr=:%s", port)
	log.Fatal(srv.ListenAndServe())
}
