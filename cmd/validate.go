package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/platewise/nutrition-engine/internal/model"
)

var (
	validatePlanPath string
	validateCalories float64
	validateProtein  float64
	validateCarbs    float64
	validateFat      float64
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate and adjust a draft meal plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(validatePlanPath)
		if err != nil {
			return eris.Wrap(err, "read plan file")
		}

		var plan model.MealPlan
		if err := json.Unmarshal(data, &plan); err != nil {
			return eris.Wrap(err, "parse plan file")
		}

		target := model.TargetMacroProfile{
			Calories: validateCalories,
			Protein:  validateProtein,
			Carbs:    validateCarbs,
			Fat:      validateFat,
		}

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := eng.ValidateAndAdjust(ctx, plan, target)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal result")
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validatePlanPath, "plan", "", "path to draft meal plan JSON (required)")
	validateCmd.Flags().Float64Var(&validateCalories, "calories", 2000, "daily calorie target (kcal)")
	validateCmd.Flags().Float64Var(&validateProtein, "protein", 150, "daily protein target (g)")
	validateCmd.Flags().Float64Var(&validateCarbs, "carbs", 200, "daily carb target (g)")
	validateCmd.Flags().Float64Var(&validateFat, "fat", 67, "daily fat target (g)")
	validateCmd.MarkFlagRequired("plan")
	rootCmd.AddCommand(validateCmd)
}
