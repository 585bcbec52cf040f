package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/digitalmarketplace/facet"
)

var (
	contentDir string
	nodes      []string
	index      string
	lotFlag    string
	pageFlag   int
	filters    []string

	headerStyle = lipgloss.NewStyle().Bold(true)
	lotStyle    = lipgloss.NewStyle().Faint(true)
	countStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

func main() {
	root := &cobra.Command{
		Use:   "facetsearch [keywords]",
		Short: "Search the service catalogue from the command line",
		Long: `facetsearch runs a catalogue search the way the buyer frontend does:
request parameters are whitelisted against the question-driven filter
vocabulary, grouped into a search query, executed against Elasticsearch
and presented with a summary sentence and pagination state.`,
		Args: cobra.ArbitraryArgs,
		RunE: run,
	}

	root.Flags().StringVarP(&contentDir, "content", "c", "content", "content directory with the questions manifest")
	root.Flags().StringSliceVarP(&nodes, "node", "n", []string{"127.0.0.1:9200"}, "Elasticsearch node address")
	root.Flags().StringVarP(&index, "index", "i", "g-cloud-services", "Elasticsearch index to search")
	root.Flags().StringVarP(&lotFlag, "lot", "l", "all", "lot to search (saas, paas, iaas, scs or all)")
	root.Flags().IntVarP(&pageFlag, "page", "p", 0, "result page")
	root.Flags().StringArrayVarP(&filters, "filter", "f", nil, "filter as name=value, repeatable")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	lot, ok := facet.ParseLot(lotFlag)
	if !ok {
		return fmt.Errorf("unknown lot %q", lotFlag)
	}

	catalog, err := facet.NewQuestionCatalog(contentDir)
	if err != nil {
		return err
	}
	defer catalog.Close()

	backend, err := facet.NewElasticBackend(nodes, index)
	if err != nil {
		return err
	}

	endpoint := facet.NewEndpoint(catalog, backend,
		facet.WithSummaryRules(summaryRules(catalog)...))

	page, err := endpoint.Search(cmd.Context(), lot, queryArgs(args))
	if err != nil {
		return err
	}

	printPage(cmd, page)
	return nil
}

func queryArgs(args []string) url.Values {
	values := url.Values{}

	if keywords := strings.Join(args, " "); keywords != "" {
		values.Set("q", keywords)
	}
	if pageFlag > 0 {
		values.Set("page", strconv.Itoa(pageFlag))
	}

	for _, f := range filters {
		name, value, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		values.Add(name, value)
	}

	return values
}

// summaryRules derives a sentence rule per filter group: option-driven
// groups read as categories, boolean groups as features.
func summaryRules(catalog *facet.QuestionCatalog) []facet.SummaryRule {
	var rules []facet.SummaryRule
	for _, section := range catalog.Sections() {
		boolean := true
		for _, q := range section.Questions {
			if q.Type != facet.BooleanQuestion {
				boolean = false
				break
			}
		}

		if boolean {
			rules = append(rules, facet.FeaturesRule(section.Name))
		} else {
			rules = append(rules, facet.CategoriesRule(section.Name))
		}
	}

	return rules
}

func printPage(cmd *cobra.Command, page *facet.SearchPage) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, countStyle.Render(stripMarkup(page.Summary)))
	fmt.Fprintln(out)

	for _, result := range page.Results.Results {
		fmt.Fprintln(out, headerStyle.Render(result.Fields["serviceName"]))
		if result.Lot != "" {
			fmt.Fprintln(out, lotStyle.Render(result.Lot))
		}
		if summary := stripMarkup(result.Summary()); summary != "" {
			fmt.Fprintln(out, summary)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "page of %d", page.Pagination.TotalPages)
	if page.Pagination.NextPage != nil {
		fmt.Fprintf(out, ", next: --page %d", *page.Pagination.NextPage)
	}
	if page.Pagination.PrevPage != nil {
		fmt.Fprintf(out, ", prev: --page %d", *page.Pagination.PrevPage)
	}
	fmt.Fprintln(out)
}

// stripMarkup removes the search API's highlight tags for terminal
// output.
func stripMarkup(s string) string {
	s = strings.ReplaceAll(s, "<em>", "")
	return strings.ReplaceAll(s, "</em>", "")
}
