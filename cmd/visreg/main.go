// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command visreg compares rendered images against references from the
// command line: inspect a mismatch a CI run reported, or adopt a new
// authoritative reference for a test.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/visreg"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "visreg",
		Short: "visreg — visual regression image comparison",
	}

	// compare command
	var threshold float64
	var diffOut string

	compareCmd := &cobra.Command{
		Use:   "compare <captured.png> <reference.png>",
		Short: "Compare two PNG images within a tolerance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			captured, err := visreg.LoadPNG(args[0])
			if err != nil {
				return err
			}
			reference, err := visreg.LoadPNG(args[1])
			if err != nil {
				return err
			}

			cfg := visreg.DefaultConfig()
			cfg.Threshold = threshold
			cfg.SaveDiff = diffOut != ""

			result, err := visreg.Compare(captured, reference, cfg)
			if err != nil {
				return err
			}

			fmt.Printf("difference: %.6f (threshold %.6f)\n", result.Difference, cfg.Threshold)

			if diffOut != "" && result.DiffImage != nil {
				if err := result.DiffImage.SavePNG(diffOut); err != nil {
					return err
				}
				fmt.Printf("diff image: %s\n", diffOut)
			}

			if !result.IsMatch {
				return fmt.Errorf("mismatch: difference %.6f exceeds threshold %.6f",
					result.Difference, cfg.Threshold)
			}
			fmt.Println("match")
			return nil
		},
	}
	compareCmd.Flags().Float64Var(&threshold, "threshold", 0.01, "Maximum allowed average per-pixel difference (0-1)")
	compareCmd.Flags().StringVar(&diffOut, "diff", "", "Write a diff visualization PNG to this path")

	// update command
	var storeDir string

	updateCmd := &cobra.Command{
		Use:   "update <test-name> <image.png>",
		Short: "Adopt an image as the authoritative reference for a test",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			testName, imagePath := args[0], args[1]

			img, err := visreg.LoadPNG(imagePath)
			if err != nil {
				return err
			}

			store := visreg.NewReferenceStore(storeDir)
			if err := store.Overwrite(testName, img); err != nil {
				return err
			}

			fmt.Printf("reference updated: %s\n", store.ReferencePath(testName))
			return nil
		},
	}
	updateCmd.Flags().StringVar(&storeDir, "dir", "testdata/visual", "Reference store root directory")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(updateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
