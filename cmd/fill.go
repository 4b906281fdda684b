package cmd

import (
	"fmt"
	"os"
	"time"

	"db-fill/internal/logger"
	"db-fill/internal/provision"
	"db-fill/internal/schema"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	fillTable     string
	fillRows      int
	fillFields    []string
	payloadFile   string
	forceRecreate bool
	dryRun        bool
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Create the table if needed and fill it with random rows",
	Example: `  db-fill fill -t users -n 100 -f id:integer:primary -f email:email:unique -f bio:multistring
  db-fill fill --payload users.yaml --force-recreate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildFillRequest(cmd)
		if err != nil {
			return err
		}

		log := logger.Named("fill")
		p := provision.New(DB, Dialect, provisionOptions(SchemaName), logger.Named("provision"), nil)

		if dryRun {
			log.Info("[SIMULATION] Dry-Run Mode Active: No data will be written.")
			plan, err := p.Plan(cmd.Context(), req)
			if err != nil {
				return err
			}
			printPlan(req, plan)
			return nil
		}

		log.Info("Starting fill", zap.String("table", req.TableName), zap.Int("row_number", req.RowNumber))
		start := time.Now()

		var onProgress func()
		if req.RowNumber > 0 {
			uiprogress.Start()
			bar := uiprogress.AddBar(req.RowNumber).AppendCompleted().PrependElapsed()
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return "Inserting " + req.TableName + ": "
			})
			onProgress = func() { bar.Incr() }
		}

		res, err := p.ProvisionWithProgress(cmd.Context(), req, onProgress)

		if onProgress != nil {
			uiprogress.Stop()
		}
		if err != nil {
			return err
		}

		fmt.Println("\n📊 Summary Report:")
		fmt.Printf("[✓] %-20s : %d rows inserted, %d rows in table\n", req.TableName, res.Inserted, res.TotalInTable)
		log.Info("Fill done", zap.Duration("elapsed", time.Since(start)))
		return nil
	},
}

// buildFillRequest merges the payload file, if any, with the flags. Flags win.
func buildFillRequest(cmd *cobra.Command) (provision.Request, error) {
	req := provision.NewRequest()
	req.RowNumber = viper.GetInt("settings.default_rows")

	if payloadFile != "" {
		data, err := os.ReadFile(payloadFile)
		if err != nil {
			return req, fmt.Errorf("failed to read payload: %w", err)
		}
		// YAML also accepts JSON request bodies.
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("failed to parse payload %s: %w", payloadFile, err)
		}
	}

	if fillTable != "" {
		req.TableName = fillTable
	}
	if cmd.Flags().Changed("rows") {
		req.RowNumber = fillRows
	}
	if forceRecreate {
		req.ForceRecreateTable = true
	}
	if len(fillFields) > 0 {
		req.Fields = req.Fields[:0]
		for _, spec := range fillFields {
			f, err := schema.ParseFieldSpec(spec)
			if err != nil {
				return req, err
			}
			req.Fields = append(req.Fields, f)
		}
	}
	return req, req.Validate()
}

func printPlan(req provision.Request, plan *provision.Plan) {
	fmt.Printf("🔍 Plan for %s: %s\n", req.TableName, plan.Action)
	if len(plan.Existing) > 0 {
		fmt.Println("Existing columns:")
		for _, f := range plan.Existing {
			fmt.Printf("  - %-20s %s\n", f.Name, f.Type)
		}
	}
	if plan.Action == provision.ActionReject {
		fmt.Println("Table shape differs; rerun with --force-recreate to drop it.")
		return
	}
	if plan.DropSQL != "" {
		fmt.Println(plan.DropSQL + ";")
	}
	fmt.Println(plan.CreateSQL + ";")
	fmt.Printf("%s;  -- x%d\n", plan.InsertSQL, req.RowNumber)
}

func init() {
	RootCmd.AddCommand(fillCmd)

	// CLI Flags
	fillCmd.Flags().StringVarP(&fillTable, "table", "t", "", "Target table name")
	fillCmd.Flags().IntVarP(&fillRows, "rows", "n", 0, "Number of rows to generate (overrides config)")
	fillCmd.Flags().StringArrayVarP(&fillFields, "field", "f", nil, "Field as name:type[:constraint,...] (repeatable)")
	fillCmd.Flags().StringVar(&payloadFile, "payload", "", "YAML or JSON request file")
	fillCmd.Flags().BoolVar(&forceRecreate, "force-recreate", false, "Drop and recreate the table when its schema differs")
	fillCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without writing to DB")
}
