// ABOUTME: Product commands for prodctl CLI
// ABOUTME: List, show, create, update and delete products as the signed-in user

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/format"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/products"
)

var (
	listMine    bool
	listSearch  string
	productName string
	productDesc string
	productCost string
)

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product"},
	Short:   "Manage products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Long:  `List every product, or only yours with --mine. --search filters by name or description.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runProductCmd(func(ctx context.Context, w io.Writer) int {
			return runProductsList(ctx, w, listMine, listSearch)
		})
	},
}

var productsGetCmd = &cobra.Command{
	Use:   "get ID...",
	Short: "Show one or more products",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runProductCmd(func(ctx context.Context, w io.Writer) int {
			return runProductsGet(ctx, w, args)
		})
	},
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runProductCmd(func(ctx context.Context, w io.Writer) int {
			return runProductsCreate(ctx, w, productName, productDesc, productCost)
		})
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change fields of a product you own",
	Long:  `Change fields of a product you own. Only the flags given are sent.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var name, desc, price *string
		if cmd.Flags().Changed("name") {
			name = &productName
		}
		if cmd.Flags().Changed("description") {
			desc = &productDesc
		}
		if cmd.Flags().Changed("price") {
			price = &productCost
		}
		runProductCmd(func(ctx context.Context, w io.Writer) int {
			return runProductsUpdate(ctx, w, args[0], name, desc, price)
		})
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a product you own",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runProductCmd(func(ctx context.Context, w io.Writer) int {
			return runProductsDelete(ctx, w, args[0])
		})
	},
}

func init() {
	productsListCmd.Flags().BoolVar(&listMine, "mine", false, "Only products you own")
	productsListCmd.Flags().StringVar(&listSearch, "search", "", "Filter by name or description")

	for _, c := range []*cobra.Command{productsCreateCmd, productsUpdateCmd} {
		c.Flags().StringVar(&productName, "name", "", "Product name")
		c.Flags().StringVar(&productDesc, "description", "", "Product description")
		c.Flags().StringVar(&productCost, "price", "", "Price, e.g. 9.99")
	}

	productsCmd.AddCommand(productsListCmd, productsGetCmd, productsCreateCmd, productsUpdateCmd, productsDeleteCmd)
	rootCmd.AddCommand(productsCmd)
}

func runProductCmd(run func(ctx context.Context, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exitCode := run(ctx, os.Stdout)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// runProductsList lists products and returns exit code
func runProductsList(ctx context.Context, w io.Writer, mine bool, search string) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	if code := d.requireSession(ctx, w); code != exitOK {
		return code
	}

	var list []products.Product
	var err error
	if mine {
		list, err = d.products.ListMine(ctx, d.sessions.Auth())
	} else {
		list, err = d.products.List(ctx, d.sessions.Auth())
	}
	if err != nil {
		return d.failAuthed(w, err)
	}
	list = products.Filter(list, search)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatProductsJSON(list))
		return exitOK
	}
	sess, _ := d.sessions.Current()
	fmt.Fprintln(w, formatProductsTable(list, sess.UserID))
	return exitOK
}

// runProductsGet fetches each id concurrently and returns exit code
func runProductsGet(ctx context.Context, w io.Writer, ids []string) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	if code := d.requireSession(ctx, w); code != exitOK {
		return code
	}

	list, err := d.products.GetMany(ctx, d.sessions.Auth(), ids...)
	if err != nil {
		return d.failAuthed(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatProductsJSON(list))
		return exitOK
	}
	for i := range list {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, formatProductHuman(&list[i]))
	}
	return exitOK
}

// runProductsCreate creates a product owned by the signed-in user and returns exit code
func runProductsCreate(ctx context.Context, w io.Writer, name, description, price string) int {
	d, code := setup(w)
	if d == nil {
		return code
	}

	cost, err := products.ParsePrice(price)
	if err != nil {
		return fail(w, err)
	}
	if code := d.requireSession(ctx, w); code != exitOK {
		return code
	}

	p, err := d.products.Create(ctx, d.sessions.Auth(), products.NewProduct{Name: name, Description: description, Price: cost})
	if err != nil {
		return d.failAuthed(w, err)
	}

	return printProduct(w, p, "Created")
}

// runProductsUpdate sends the given fields and returns exit code. nil fields are left unchanged.
func runProductsUpdate(ctx context.Context, w io.Writer, id string, name, description, price *string) int {
	d, code := setup(w)
	if d == nil {
		return code
	}

	update := products.ProductUpdate{Name: name, Description: description}
	if price != nil {
		cost, err := products.ParsePrice(*price)
		if err != nil {
			return fail(w, err)
		}
		update.Price = &cost
	}
	if code := d.requireSession(ctx, w); code != exitOK {
		return code
	}

	p, err := d.products.Update(ctx, d.sessions.Auth(), id, update)
	if err != nil {
		return d.failAuthed(w, err)
	}

	return printProduct(w, p, "Updated")
}

// runProductsDelete deletes a product and returns exit code
func runProductsDelete(ctx context.Context, w io.Writer, id string) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	if code := d.requireSession(ctx, w); code != exitOK {
		return code
	}

	if err := d.products.Delete(ctx, d.sessions.Auth(), id); err != nil {
		return d.failAuthed(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintf(w, "{\"deleted\": %q}\n", id)
	} else {
		fmt.Fprintf(w, "Deleted %s\n", id)
	}
	return exitOK
}

func printProduct(w io.Writer, p *products.Product, verb string) int {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(p, "", "  ")
		fmt.Fprintln(w, string(data))
		return exitOK
	}
	fmt.Fprintf(w, "%s %s\n", verb, p.ID)
	fmt.Fprintln(w, formatProductHuman(p))
	return exitOK
}

// formatProductHuman formats one product for human readability
func formatProductHuman(p *products.Product) string {
	updated := "-"
	if !p.UpdatedAt.IsZero() {
		updated = format.Date(p.UpdatedAt.Time)
	}
	return fmt.Sprintf(`Name:         %s
Price:        %s
Description:  %s
ID:           %s
Owner:        %s
Updated:      %s`, p.Name, format.Currency(p.Price), p.Description, p.ID, p.OwnerUserID, updated)
}

// formatProductsTable renders the list as a table, marking rows owned by ownerID
func formatProductsTable(list []products.Product, ownerID string) string {
	if len(list) == 0 {
		return "No products found."
	}

	rows := make([][]string, 0, len(list))
	for _, p := range list {
		mine := ""
		if ownerID != "" && p.OwnerUserID == ownerID {
			mine = "yes"
		}
		rows = append(rows, []string{p.ID, p.Name, format.Currency(p.Price), mine})
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "PRICE", "MINE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	return fmt.Sprintf("%s\n%d product(s)", t.Render(), len(list))
}

// formatProductsJSON formats products as JSON
func formatProductsJSON(list []products.Product) string {
	data, _ := json.MarshalIndent(list, "", "  ")
	return string(data)
}
