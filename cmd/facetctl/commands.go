package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	facetdex "github.com/kailas-cloud/facetdex/pkg/sdk"
)

func importCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("import file is required")
	}
	projects, err := readProjects(path)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		return fmt.Errorf("%s contains no projects", path)
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}
	stored, err := client.Import(c.Context, projects)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "imported %d projects\n", len(stored))
	return printProjects(c.App.Writer, stored)
}

// projectFile is the on-disk fixture layout. A bare list is accepted too.
type projectFile struct {
	Projects []facetdex.Project `json:"projects" yaml:"projects"`
}

func readProjects(path string) ([]facetdex.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if len(root.Content) == 0 {
			return nil, nil
		}
		doc := root.Content[0]
		if doc.Kind == yaml.SequenceNode {
			var list []facetdex.Project
			if err := doc.Decode(&list); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", path, err)
			}
			return list, nil
		}
		var f projectFile
		if err := doc.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return f.Projects, nil
	default:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var list []facetdex.Project
			if err := json.Unmarshal(trimmed, &list); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			return list, nil
		}
		var f projectFile
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return f.Projects, nil
	}
}

func listCommand(c *cli.Context) error {
	sort, err := facetdex.ParseSortKey(c.String("sort"))
	if err != nil {
		return err
	}
	client, err := newClient(c)
	if err != nil {
		return err
	}
	resp, err := client.ListProjects(c.Context, sort)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("list failed: server reported failure")
	}
	return printProjects(c.App.Writer, resp.Projects)
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	client, err := newClient(c)
	if err != nil {
		return err
	}
	projects, err := client.SearchAllFields(c.Context, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return printProjects(c.App.Writer, projects)
}

// openView loads the catalog into a client-held view and applies the
// selected tags.
func openView(c *cli.Context, client *facetdex.Client, perPage int) (*facetdex.View, error) {
	sort, err := facetdex.ParseSortKey(c.String("sort"))
	if err != nil {
		return nil, err
	}
	view := client.NewView(facetdex.WithViewPerPage(perPage))
	if err := view.SetSort(c.Context, sort); err != nil {
		view.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	for _, ref := range c.StringSlice("tag") {
		kind, id, ok := strings.Cut(ref, ":")
		if !ok {
			view.Close()
			return nil, fmt.Errorf("tag %q must be kind:id", ref)
		}
		k, err := facetdex.ParseFacetKind(kind)
		if err != nil {
			view.Close()
			return nil, err
		}
		if _, err := view.SelectTag(k, id); err != nil {
			view.Close()
			return nil, fmt.Errorf("tag %q: %w", ref, err)
		}
	}
	return view, nil
}

func catalogCommand(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	perPage := c.Int("per-page")
	if perPage <= 0 && c.Int("width") > 0 {
		perPage = client.NewWidthSignal(c.Int("width")).PerPage()
	}

	view, err := openView(c, client, perPage)
	if err != nil {
		return err
	}
	defer view.Close()

	view.SetQuery(c.String("query"))
	view.GoTo(c.Int("page"))
	snap := view.Snapshot()

	w := c.App.Writer
	fmt.Fprintf(w, "page %d/%d, %d matching projects, %d per page, sort %s\n",
		snap.Page, snap.TotalPages, snap.Total, snap.PerPage, snap.Sort)
	if len(snap.Selected) > 0 {
		names := make([]string, len(snap.Selected))
		for i, t := range snap.Selected {
			names[i] = string(t.Kind()) + ":" + t.Name()
		}
		fmt.Fprintf(w, "selected: %s\n", strings.Join(names, ", "))
	}
	if err := printProjects(w, snap.Items); err != nil {
		return err
	}
	for _, p := range snap.Facets {
		names := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			names[i] = t.Name()
		}
		line := strings.Join(names, ", ")
		if p.More > 0 {
			line += fmt.Sprintf(" (+%d more)", p.More)
		}
		fmt.Fprintf(w, "%s: %s\n", p.Kind, line)
	}
	return nil
}

func facetsCommand(c *cli.Context) error {
	kind, err := facetdex.ParseFacetKind(c.Args().First())
	if err != nil {
		return err
	}
	client, err := newClient(c)
	if err != nil {
		return err
	}
	view, err := openView(c, client, 0)
	if err != nil {
		return err
	}
	defer view.Close()

	b := view.Browser(kind)
	b.SetLetter(c.String("letter"))
	if text := c.String("text"); text != "" {
		b.SetText(text)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "letters: %s\n", strings.Join(b.Letters(), " "))
	for _, g := range b.Groups() {
		fmt.Fprintln(w, g.Letter)
		for _, e := range g.Entries {
			mark := " "
			if e.Selected {
				mark = "x"
			}
			fmt.Fprintf(w, "  [%s] %s (%d)\n", mark, e.Tag.Name(), e.Count)
		}
	}
	return nil
}

// printNavigator reports detail-view navigation.
type printNavigator struct{ w io.Writer }

func (n printNavigator) Navigate(kind facetdex.ResultKind, id string) {
	fmt.Fprintf(n.w, "open %s %s\n", kind, id)
}

func typeaheadCommand(c *cli.Context) error {
	client, err := newClient(c, facetdex.WithDebounce(c.Duration("debounce")))
	if err != nil {
		return err
	}
	w := c.App.Writer

	if c.Bool("interactive") {
		return runInteractive(c, client, w)
	}

	query := strings.Join(c.Args().Slice(), " ")
	r := client.NewResolver(nil, nil)
	defer r.Close()

	var res []facetdex.Result
	if narrow := c.String("narrow"); narrow != "" {
		key, err := facetdex.ParseResultKey(narrow)
		if err != nil {
			return err
		}
		res, err = r.ResolveNarrowed(c.Context, query, key)
		if err != nil {
			return fmt.Errorf("typeahead failed: %w", err)
		}
	} else {
		res, err = r.Resolve(c.Context, query)
		if err != nil {
			return fmt.Errorf("typeahead failed: %w", err)
		}
	}
	printResults(w, res)
	return nil
}

// runInteractive treats each stdin line as the new content of the search
// box. "#N" selects the Nth suggestion of the open list and "!" hides it.
func runInteractive(c *cli.Context, client *facetdex.Client, w io.Writer) error {
	r := client.NewResolver(func(res []facetdex.Result) {
		fmt.Fprintln(w, "--")
		printResults(w, res)
	}, printNavigator{w: w})
	defer r.Close()

	scanner := bufio.NewScanner(c.App.Reader)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "!" {
			r.Flush()
			r.Dismiss()
			fmt.Fprintln(w, "dismissed")
			continue
		}
		if rest, ok := strings.CutPrefix(line, "#"); ok {
			r.Flush()
			if !r.Open() {
				fmt.Fprintln(w, "no suggestions open")
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(rest))
			results := r.Results()
			if err != nil || n < 1 || n > len(results) {
				fmt.Fprintf(w, "no suggestion %q\n", rest)
				continue
			}
			r.Select(results[n-1])
			continue
		}
		r.Type(line)
	}
	r.Flush()
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func healthCommand(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	h, err := client.Health(c.Context)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "status: %s\n", h.Status)
	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(c.App.Writer, "  %s: %s\n", name, h.Checks[name])
	}
	if h.Status != "ok" {
		return cli.Exit("server is not healthy", 1)
	}
	return nil
}

func printProjects(w io.Writer, projects []facetdex.Project) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCLIENT\tTEAM\tTECH STACK")
	for i := range projects {
		p := &projects[i]
		stack := make([]string, len(p.TechStack))
		for j, r := range p.TechStack {
			stack[j] = r.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.ClientName(), p.TeamName(), strings.Join(stack, ", "))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func printResults(w io.Writer, res []facetdex.Result) {
	if len(res) == 0 {
		fmt.Fprintln(w, "no suggestions")
		return
	}
	for i, r := range res {
		fmt.Fprintf(w, "%d. %-9s %s\n", i+1, r.Kind(), r.Name())
	}
}
