package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/display"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/logging"
	"github.com/i474232898/weather-dashboard/internal/prefs"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "weather dashboard server URL")
	lat := flag.String("lat", "", "device latitude")
	lon := flag.String("lon", "", "device longitude")
	search := flag.String("search", "", "search for a place and show the first match")
	units := flag.String("units", "", "metric or imperial (defaults to the saved preference)")
	toggle := flag.Bool("toggle", false, "switch units after loading and fetch again")
	session := flag.String("session", "", "preferences session id; created when empty and -save is set")
	save := flag.Bool("save", false, "store units and location in the preferences session")
	tz := flag.String("tz", "", "IANA zone used for times (defaults to local)")
	verbose := flag.Bool("v", false, "log diagnostics to stderr")
	flag.Parse()

	level := "error"
	if *verbose {
		level = "debug"
	}
	sugar, err := logging.New(level, "console")
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	loc := time.Local
	if *tz != "" {
		if loc, err = time.LoadLocation(*tz); err != nil {
			log.Fatalf("invalid -tz: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := dashboard.NewAPIClient(dashboard.BaseURLOption(*server))

	p := prefs.Default()
	if *session != "" {
		if p, err = client.LoadPreferences(ctx, *session); err != nil {
			sugar.Warnw("could not load preferences; using defaults", "session", *session, "error", err)
			p = prefs.Default()
		}
	}
	if *units != "" {
		u, err := weather.ParseUnits(*units)
		if err != nil {
			log.Fatalf("invalid -units: %v", err)
		}
		p.Units = u
	}

	locator, err := parseLocator(*lat, *lon)
	if err != nil {
		log.Fatal(err)
	}
	if *search != "" {
		// An explicit search wins over any saved location.
		p.LastLocation = nil
	}

	page := dashboard.NewPage(client, locator, p, sugar.Named("page"))
	page.OnChange = func(s dashboard.Snapshot) {
		sugar.Debugw("page state", "state", s.State.String(), "place", s.Place, "units", s.Units)
	}

	if *search != "" {
		if err := searchAndSelect(ctx, client, page, *search); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		page.Start(ctx)
	}

	if *toggle {
		page.ToggleUnits(ctx)
	}

	snap := page.Snapshot()
	if snap.Error != "" {
		fmt.Fprintln(os.Stderr, snap.Error)
	}
	view, ok := page.View(time.Now(), loc)
	if !ok {
		fmt.Fprintln(os.Stderr, "No weather data available.")
		os.Exit(1)
	}
	printView(view)

	if *save {
		if err := savePreferences(ctx, client, *session, page); err != nil {
			sugar.Errorw("could not save preferences", "error", err)
			os.Exit(1)
		}
	}
}

func parseLocator(lat, lon string) (dashboard.Locator, error) {
	if lat == "" && lon == "" {
		return nil, nil
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid -lat %q", lat)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid -lon %q", lon)
	}
	return dashboard.StaticLocator{Latitude: la, Longitude: lo}, nil
}

// searchAndSelect types query into a Searcher, waits for the answer, lists
// the candidates and picks the first one.
func searchAndSelect(ctx context.Context, finder dashboard.LocationFinder, page *dashboard.Page, query string) error {
	s := dashboard.NewSearcher(ctx, finder, 10*time.Millisecond)
	defer s.Close()

	settled := make(chan dashboard.SearchState, 1)
	s.OnChange = func(st dashboard.SearchState) {
		if !st.Searching {
			select {
			case settled <- st:
			default:
			}
		}
	}
	var chosen geo.Location
	s.OnSelect = func(l geo.Location) { chosen = l }

	s.SetQuery(query)

	var st dashboard.SearchState
	select {
	case st = <-settled:
	case <-ctx.Done():
		return ctx.Err()
	}
	if st.Error != "" {
		return errors.New(st.Error)
	}
	if len(st.Results) == 0 {
		return fmt.Errorf("search query must be at least %d characters", dashboard.MinQueryLength)
	}

	for i, l := range st.Results {
		fmt.Printf("%d. %s\n", i+1, l.Label())
	}
	fmt.Println()

	if err := s.Select(0); err != nil {
		return err
	}
	page.SelectLocation(ctx, chosen)
	return nil
}

func printView(v display.WeatherView) {
	fmt.Printf("%s\n", v.Place)
	fmt.Printf("%s (feels like %s), %s\n", v.Temperature, v.FeelsLike, v.Description)
	fmt.Printf("Low %s / High %s\n", v.Low, v.High)

	wind := fmt.Sprintf("%s %s (%.0f°)", v.Wind.Speed, v.Wind.Direction, v.Wind.Bearing)
	if v.Wind.Gust != "" {
		wind += ", gusts " + v.Wind.Gust
	}
	fmt.Printf("Wind: %s\n", wind)
	for _, g := range v.Gauges {
		fmt.Printf("%s: %.0f%s\n", g.Label, g.Value, g.Unit)
	}
	fmt.Printf("Visibility: %s\n", v.Visibility)
	fmt.Printf("Pressure: %s\n", v.Pressure)
	if v.Precipitation != "" {
		fmt.Printf("Precipitation: %s\n", v.Precipitation)
	}
	if v.UV != nil {
		fmt.Printf("UV index: %s (%s)\n", v.UV.Value, v.UV.Level)
	}
	if v.DewPoint != "" {
		fmt.Printf("Dew point: %s\n", v.DewPoint)
	}
	fmt.Printf("Sunrise %s, sunset %s\n", v.Sunrise, v.Sunset)

	if len(v.Forecast) > 0 {
		fmt.Println()
		labels := make([]string, 0, len(v.Forecast))
		for _, s := range v.Forecast {
			labels = append(labels, fmt.Sprintf("%s %s %s", s.Label, s.Temperature, s.Description))
		}
		fmt.Println(strings.Join(labels, "\n"))
	}
}

func savePreferences(ctx context.Context, client *dashboard.APIClient, session string, page *dashboard.Page) error {
	u := page.PreferencesUpdate()

	var (
		saved prefs.Preferences
		err   error
	)
	if session == "" {
		saved, err = client.CreatePreferences(ctx, u)
	} else {
		saved, err = client.SavePreferences(ctx, session, u)
	}
	if err != nil {
		return err
	}
	fmt.Printf("\nPreferences saved to session %s\n", saved.ID)
	return nil
}
