// Command browse is a terminal client for the restaurant API. It reads
// commands from stdin and prints the listing after every change.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/forkful/restaurant-finder/internal/apiclient"
	"github.com/forkful/restaurant-finder/internal/filterstate"
	"github.com/forkful/restaurant-finder/internal/logging"
	"github.com/forkful/restaurant-finder/internal/models"
	"github.com/forkful/restaurant-finder/internal/utils/httpclient"
	"go.uber.org/zap"
)

const help = `commands:
  filter <location|cuisines|minRating|priceRange|search> [value]
  clear <filter|all>
  page <n> | next | prev
  sort <name|rating|createdAt|location> [asc|desc]
  limit <n>
  show <id>
  options
  reload
  help
  quit`

func main() {
	apiURL := flag.String("api", "http://localhost:8080/api", "API base URL")
	timeout := flag.Duration("timeout", filterstate.DefaultFetchTimeout, "per-request timeout")
	flag.Parse()

	if err := logging.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logging.Logger.Sync() }()

	client := apiclient.New(*apiURL,
		apiclient.WithPool(httpclient.NewHTTPClientPool(2, *timeout)),
		apiclient.WithLogger(logging.Logger))
	defer client.Close()

	session := filterstate.NewSession(client,
		filterstate.WithFetchTimeout(*timeout),
		filterstate.WithSessionLogger(logging.Logger))
	defer session.Close()

	ctx := context.Background()
	session.LoadFilterOptions(ctx)
	render(os.Stdout, session.LoadRestaurants(ctx))

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return
		}
		if line != "" {
			if err := run(ctx, os.Stdout, session, line); err != nil {
				fmt.Println(err)
			}
		}
		fmt.Print("> ")
	}
	if err := scanner.Err(); err != nil {
		logging.Logger.Error("failed to read input", zap.Error(err))
	}
}

// run executes one command line against the session
func run(ctx context.Context, w io.Writer, session *filterstate.Session, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "filter":
		if len(args) == 0 {
			return fmt.Errorf("usage: filter <name> [value]")
		}
		key, err := filterstate.ParseFilterKey(args[0])
		if err != nil {
			return err
		}
		value, err := filterValue(key, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		render(w, session.SetFilter(ctx, key, value))

	case "clear":
		if len(args) != 1 {
			return fmt.Errorf("usage: clear <filter|all>")
		}
		if args[0] == "all" {
			render(w, session.ClearAllFilters(ctx))
			return nil
		}
		key, err := filterstate.ParseFilterKey(args[0])
		if err != nil {
			return err
		}
		render(w, session.ClearFilter(ctx, key))

	case "page", "limit":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <n>", cmd)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%s must be a number", cmd)
		}
		if cmd == "page" {
			render(w, session.SetPage(ctx, n))
		} else {
			render(w, session.SetLimit(ctx, n))
		}

	case "next", "prev":
		p := session.State().Pagination
		if cmd == "next" && !p.HasNext || cmd == "prev" && !p.HasPrev {
			return fmt.Errorf("no %s page", cmd)
		}
		page := p.CurrentPage + 1
		if cmd == "prev" {
			page = p.CurrentPage - 1
		}
		render(w, session.SetPage(ctx, page))

	case "sort":
		if len(args) == 0 {
			return fmt.Errorf("usage: sort <field> [asc|desc]")
		}
		order := ""
		if len(args) > 1 {
			order = args[1]
		}
		render(w, session.SetSort(ctx, args[0], order))

	case "show":
		if len(args) != 1 {
			return fmt.Errorf("usage: show <id>")
		}
		renderDetail(w, session.LoadRestaurant(ctx, args[0]))

	case "options":
		renderOptions(w, session.LoadFilterOptions(ctx))

	case "reload":
		render(w, session.LoadRestaurants(ctx))

	case "help":
		fmt.Fprintln(w, help)

	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
	return nil
}

func filterValue(key filterstate.FilterKey, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	switch key {
	case filterstate.FilterCuisines, filterstate.FilterPriceRange:
		if raw == "" {
			return []string{}, nil
		}
		return strings.Split(raw, ","), nil
	case filterstate.FilterMinRating:
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("minRating must be a number")
		}
		return v, nil
	default:
		return raw, nil
	}
}

func render(w io.Writer, s filterstate.State) {
	switch s.Display() {
	case filterstate.DisplayLoading:
		fmt.Fprintln(w, "loading...")
		return
	case filterstate.DisplayError:
		renderError(w, s.Error)
		return
	case filterstate.DisplayEmpty:
		fmt.Fprintln(w, s.EmptyMessage())
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tCUISINES\tRATING\tPRICE")
	for _, r := range s.Restaurants {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\n",
			r.ID.Hex(), r.Name, r.Location, strings.Join(r.Cuisines, ", "), r.Rating, r.PriceRange)
	}
	_ = tw.Flush()

	p := s.Pagination
	fmt.Fprintf(w, "page %d of %d, %d restaurants", p.CurrentPage, p.TotalPages, p.TotalCount)
	if p.HasPrev {
		fmt.Fprint(w, " [prev]")
	}
	if p.HasNext {
		fmt.Fprint(w, " [next]")
	}
	fmt.Fprintf(w, "  sort: %s %s\n", s.Sort.Field, s.Sort.Order)
}

func renderError(w io.Writer, info *filterstate.ErrorInfo) {
	fmt.Fprintf(w, "error: %s\n", info.Message)
	for _, d := range info.Details {
		fmt.Fprintf(w, "  %s: %s\n", d.Field, d.Message)
	}
	if info.Retryable {
		fmt.Fprintln(w, "type reload to try again")
	}
}

func renderDetail(w io.Writer, s filterstate.State) {
	if s.DetailError != nil {
		renderError(w, s.DetailError)
		if s.DetailError.Kind == filterstate.KindNotFound {
			fmt.Fprintln(w, "type reload to return to the listing")
		}
		return
	}
	r := s.CurrentRestaurant
	if r == nil {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "name\t%s\n", r.Name)
	fmt.Fprintf(tw, "location\t%s\n", r.Location)
	fmt.Fprintf(tw, "cuisines\t%s\n", strings.Join(r.Cuisines, ", "))
	fmt.Fprintf(tw, "rating\t%.1f\n", r.Rating)
	fmt.Fprintf(tw, "price\t%s\n", r.PriceRange)
	fmt.Fprintf(tw, "address\t%s, %s, %s %s\n", r.Address.Street, r.Address.City, r.Address.State, r.Address.ZipCode)
	fmt.Fprintf(tw, "phone\t%s\n", r.Phone)
	if r.Description != "" {
		fmt.Fprintf(tw, "about\t%s\n", r.Description)
	}
	for _, day := range models.Weekdays {
		if hours, ok := r.Hours[day]; ok {
			fmt.Fprintf(tw, "%s\t%s\n", day, hours)
		}
	}
	fmt.Fprintf(tw, "updated\t%s\n", r.UpdatedAt.Format(time.RFC1123))
	_ = tw.Flush()
}

func renderOptions(w io.Writer, s filterstate.State) {
	o := s.FilterOptions
	fmt.Fprintf(w, "locations:    %s\n", strings.Join(o.Locations, ", "))
	fmt.Fprintf(w, "cuisines:     %s\n", strings.Join(o.Cuisines, ", "))
	fmt.Fprintf(w, "price ranges: %s\n", strings.Join(o.PriceRanges, " "))
}
