package main

import (
	"github.com/spf13/cobra"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/mode"
)

func addBiometricFlags(cmd *cobra.Command, opts *mode.Options) {
	cmd.Flags().StringVar(&opts.Sex, "sex", "", "male or female")
	cmd.Flags().Float64Var(&opts.HeightCm, "height", 0, "height in centimetres")
	cmd.Flags().Float64Var(&opts.WeightKg, "weight", 0, "weight in kilograms")
}

func addContourFlags(cmd *cobra.Command, opts *mode.Options) {
	addBiometricFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.Profile, "profile", "front", "front or side")
	cmd.Flags().Float64Var(&opts.Tilt, "tilt", 0, "camera pitch in radians")
}

func addCommands(root *cobra.Command) {
	newCmd := func(name, short string, flags func(*cobra.Command, *mode.Options)) *cobra.Command {
		opts := &mode.Options{}
		cmd := &cobra.Command{
			Use:   name,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, name, *opts)
			},
		}
		flags(cmd, opts)
		root.AddCommand(cmd)
		return cmd
	}

	newCmd("classify", "Estimate body measurements from front and side captures", func(cmd *cobra.Command, opts *mode.Options) {
		addBiometricFlags(cmd, opts)
		cmd.Flags().StringArrayVar(&opts.Front, "front", nil, "front image (repeatable)")
		cmd.Flags().StringArrayVar(&opts.FrontJoints, "front-joints", nil, "front joints JSON (repeatable, paired with --front)")
		cmd.Flags().StringArrayVar(&opts.Side, "side", nil, "side image (repeatable)")
		cmd.Flags().StringArrayVar(&opts.SideJoints, "side-joints", nil, "side joints JSON (repeatable, paired with --side)")
		cmd.Flags().BoolVar(&opts.UseAverage, "average", false, "average measurements across groupings")
	})

	newCmd("segment", "Cut the person out of a capture", func(cmd *cobra.Command, opts *mode.Options) {
		addContourFlags(cmd, opts)
		cmd.Flags().StringVar(&opts.Image, "image", "", "capture image")
		cmd.Flags().StringVar(&opts.Joints, "joints", "", "joints JSON")
		cmd.Flags().StringVar(&opts.Mask, "mask", "", "contour mask image (default: generated from --sex/--height/--weight)")
		cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output image path")
	})

	newCmd("invert", "Reconstruct a mesh from measurements", func(cmd *cobra.Command, opts *mode.Options) {
		addBiometricFlags(cmd, opts)
		cmd.Flags().StringVar(&opts.Name, "name", "", "output mesh name")
		cmd.Flags().Float64Var(&opts.Chest, "chest", 0, "chest circumference")
		cmd.Flags().Float64Var(&opts.Waist, "waist", 0, "waist circumference")
		cmd.Flags().Float64Var(&opts.Hip, "hip", 0, "hip circumference")
		cmd.Flags().Float64Var(&opts.Inseam, "inseam", 0, "inseam length")
		cmd.Flags().Float64Var(&opts.Fitness, "fitness", 0, "fitness score")
	})

	newCmd("contour", "Generate the ideal contour, its mask and alignment zones", func(cmd *cobra.Command, opts *mode.Options) {
		addContourFlags(cmd, opts)
		cmd.Flags().StringVar(&opts.Joints, "joints", "", "joints JSON to fit the contour to")
		cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "mask image path")
	})

	newCmd("inspect", "Check detected joints against the ideal contour", func(cmd *cobra.Command, opts *mode.Options) {
		addContourFlags(cmd, opts)
		cmd.Flags().StringVar(&opts.Joints, "joints", "", "joints JSON")
		cmd.Flags().StringVar(&opts.Image, "image", "", "capture image the joints came from")
	})

	newCmd("capture", "Take capture bursts from a camera or synthetic frames", func(cmd *cobra.Command, opts *mode.Options) {
		cmd.Flags().IntVar(&opts.Bursts, "bursts", 1, "number of bursts to take")
		cmd.Flags().StringToStringVar(&opts.CaptureConfig, "set", nil, "capture settings, e.g. captureCount=3,rotation=90")
	})

	newCmd("warmup", "Resolve every model set and report missing models", func(*cobra.Command, *mode.Options) {})

	newCmd("reports", "List stored run reports", func(cmd *cobra.Command, opts *mode.Options) {
		cmd.Flags().StringVar(&opts.Operation, "op", "", "only reports for this operation")
		cmd.Flags().IntVar(&opts.Max, "max", 20, "maximum reports to list (0: all)")
	})
}
