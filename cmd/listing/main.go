package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/matst80/location-listing/pkg/common"
	"github.com/matst80/location-listing/pkg/config"
	"github.com/matst80/location-listing/pkg/coordinator"
	"github.com/matst80/location-listing/pkg/events"
	"github.com/matst80/location-listing/pkg/geocode"
	"github.com/matst80/location-listing/pkg/messaging"
	"github.com/matst80/location-listing/pkg/render"
	"github.com/matst80/location-listing/pkg/server"
	"github.com/matst80/location-listing/pkg/storage"
)

var enableProfiling = flag.Bool("profiling", false, "enable profiling endpoints")

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	timeouts := common.LoadTimeoutConfig(common.DefaultTimeoutConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	disk := storage.NewDiskStorage(cfg.DataDir)

	compiler, err := loadCompiler(disk, cfg.TemplateFile)
	if err != nil {
		log.Fatalf("Failed to load row template: %v", err)
	}

	var hooks []common.ShutdownHook

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient = geocode.NewRedisClient(cfg.Redis.URL, cfg.Redis.Password)
		hooks = append(hooks, func(ctx context.Context) error {
			return redisClient.Close()
		})
	}
	geocoder := loadGeocoder(ctx, disk, cfg, redisClient)

	opts := coordinator.Options{
		Geocoder:       geocoder,
		Compiler:       compiler,
		GeocodeTimeout: cfg.Geocode.Timeout,
		VisiblePages:   cfg.Pagination.VisiblePages,
	}

	bus := events.NewBus()

	var conn *amqp.Connection
	if cfg.Rabbit.URL != "" {
		conn, err = amqp.Dial(cfg.Rabbit.URL)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		hooks = append(hooks, func(ctx context.Context) error {
			return conn.Close()
		})
		bus.SubscribeAll(rabbitEmitter(conn, cfg.Rabbit.Prefix).Emit)
	} else {
		log.Printf("No rabbit url provided, widget events stay in process")
	}

	srv := server.NewWebServer(opts)
	srv.Bus = bus
	if cfg.ListingFile != "" {
		if srv.Listing, err = disk.LoadRawListing(cfg.ListingFile); err != nil {
			log.Fatalf("Failed to load listing: %v", err)
		}
	}
	if cfg.MarkersFile != "" {
		if srv.Markers, err = disk.LoadMarkers(cfg.MarkersFile); err != nil {
			log.Fatalf("Failed to load markers: %v", err)
		}
	}

	if conn != nil {
		listenForCommands(ctx, conn, cfg.Rabbit.Prefix, srv.Registry)
	}

	go pruneWidgets(ctx, srv, cfg.WidgetTTL)

	mux := http.NewServeMux()
	mux.Handle("/", srv.Handle())

	debugMux := http.NewServeMux()
	debugMux.Handle("/metrics", promhttp.Handler())
	debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if *enableProfiling {
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	servers := []*http.Server{
		common.NewServerWithTimeouts(cfg.Listen, mux, timeouts),
		common.NewServerWithTimeouts(cfg.DebugListen, debugMux, timeouts),
	}
	if err := common.RunServersWithShutdown(ctx, timeouts, servers, hooks...); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func loadCompiler(disk *storage.DiskStorage, name string) (*render.TemplateCompiler, error) {
	if name == "" {
		return render.NewTemplateCompiler("")
	}
	text, err := disk.ReadTemplate(name)
	if err != nil {
		return nil, err
	}
	return render.NewTemplateCompiler(text)
}

// loadGeocoder tries the postal code index before the geocoding service and
// caches what either of them resolves.
func loadGeocoder(ctx context.Context, disk *storage.DiskStorage, cfg config.Config, client *redis.Client) geocode.Service {
	var chain geocode.Chain
	if cfg.Geocode.PostalCodes != "" {
		csvCfg := geocode.DefaultPostalCodeCSVConfig()
		if cfg.Geocode.PostalCodeFormat == "sweden" {
			csvCfg = geocode.SwedenPostalCodeCSVConfig()
		}
		fileName, _ := disk.GetFileName(cfg.Geocode.PostalCodes)
		idx, err := geocode.LoadPostalCodeIndex(ctx, fileName, csvCfg)
		if err != nil {
			log.Printf("Could not load postal codes from %s: %v", fileName, err)
		} else {
			log.Printf("Loaded %d postal codes", idx.Len())
			chain = append(chain, idx)
		}
	}
	if cfg.Geocode.URL != "" {
		chain = append(chain, geocode.NewHTTPService(cfg.Geocode.URL, cfg.Geocode.Key, cfg.Geocode.Timeout))
	}
	if len(chain) == 0 {
		log.Printf("No geocoder configured, location filters fall back to alphabetical order")
	}
	if client == nil {
		return geocode.NewCached(chain, nil, cfg.Geocode.CacheTTL)
	}
	return geocode.NewCached(chain, client, cfg.Geocode.CacheTTL)
}

func rabbitEmitter(conn *amqp.Connection, prefix string) events.Emitter {
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Failed to open a channel: %v", err)
	}
	if err := messaging.DefineTopic(ch, prefix, messaging.ListingEvents); err != nil {
		log.Fatalf("Failed to declare %s: %v", messaging.ListingEvents, err)
	}
	return messaging.NewRabbitEmitter(ch, prefix)
}

func listenForCommands(ctx context.Context, conn *amqp.Connection, prefix string, registry *coordinator.Registry) {
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Failed to open a channel: %v", err)
	}
	if err := messaging.DefineTopic(ch, prefix, messaging.ListingCommands); err != nil {
		log.Fatalf("Failed to declare %s: %v", messaging.ListingCommands, err)
	}
	if err := messaging.ListenToTopic(ch, prefix, messaging.ListingCommands, messaging.CommandHandler(ctx, registry)); err != nil {
		log.Fatalf("Failed to listen to %s: %v", messaging.ListingCommands, err)
	}
	log.Printf("Listening for widget commands")
}

func pruneWidgets(ctx context.Context, srv *server.WebServer, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := srv.Prune(ttl); n > 0 {
				log.Printf("Pruned %d idle widgets", n)
			}
		}
	}
}
