package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/voc-tools-mcp/internal/imaging"
	"github.com/ironsheep/voc-tools-mcp/internal/voc"
)

var previewOut string

var previewCmd = &cobra.Command{
	Use:   "preview FILE.xml IMAGE",
	Short: "Render annotations over their image",
	Long: `Draws every annotated shape over the image and writes the result to the
file given with -o. The output format follows its extension (png, jpg, gif,
bmp, tif). Preview colors and line width come from the preview section of
the config file.`,
	Args: cobra.ExactArgs(2),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewOut, "output", "o", "", "Output image path (required)")
	if err := previewCmd.MarkFlagRequired("output"); err != nil {
		panic(err)
	}
}

func runPreview(cmd *cobra.Command, args []string) error {
	doc, err := voc.Load(args[0])
	if err != nil {
		return err
	}
	img, err := imaging.NewImageCache().Load(args[1])
	if err != nil {
		return err
	}

	out := imaging.Render(img, doc, imaging.PreviewOptions(cfg.Preview))
	if err := imaging.SaveImage(out, previewOut); err != nil {
		return err
	}
	logger.Info("Wrote preview", zap.String("path", previewOut), zap.Int("objects", len(doc.Shapes)))
	return nil
}
