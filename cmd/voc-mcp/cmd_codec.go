package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/voc-tools-mcp/internal/imaging"
	"github.com/ironsheep/voc-tools-mcp/internal/voc"
)

var (
	encodeOut   string
	newOut      string
	newVerified bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode FILE.xml",
	Short: "Print an annotation file as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

var encodeCmd = &cobra.Command{
	Use:   "encode FILE.json",
	Short: "Write a JSON document as annotation XML",
	Long: `Reads a JSON annotation document and writes it as PASCAL-VOC XML,
to stdout or to the file given with -o.

Shapes use {"label", "kind", "points": [[x, y], ...], "difficult"}. Only
bndbox and circle shapes can be written.`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

var newCmd = &cobra.Command{
	Use:   "new IMAGE",
	Short: "Create an empty annotation for an image",
	Long: `Creates an annotation with no objects, taking folder, filename, path and
size from the image file. Writes to stdout, or to the file given with -o.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOut, "output", "o", "", "Output .xml path (default: stdout)")
	newCmd.Flags().StringVarP(&newOut, "output", "o", "", "Output .xml path (default: stdout)")
	newCmd.Flags().BoolVar(&newVerified, "verified", false, "Mark the annotation as verified")
}

func runDecode(cmd *cobra.Command, args []string) error {
	doc, err := voc.Load(args[0])
	if err != nil {
		return err
	}
	logger.Debug("Decoded annotation", zap.String("path", args[0]), zap.Int("objects", len(doc.Shapes)))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func runEncode(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	var doc voc.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Database == "" {
		doc.Database = cfg.Annotation.Database
	}
	return writeDocument(cmd, &doc, encodeOut)
}

func runNew(cmd *cobra.Command, args []string) error {
	desc, err := imaging.DescribeImage(imaging.NewImageCache(), args[0])
	if err != nil {
		return err
	}
	doc := imaging.NewDocument(desc, cfg.Annotation.Database, cfg.Annotation.Verified || newVerified)
	return writeDocument(cmd, doc, newOut)
}

// writeDocument saves doc to out, or prints it when out is empty.
func writeDocument(cmd *cobra.Command, doc *voc.Document, out string) error {
	if out == "" {
		return voc.EncodeTo(cmd.OutOrStdout(), doc)
	}

	path, err := voc.Save(doc, out)
	if err != nil {
		return err
	}
	logger.Info("Saved annotation", zap.String("path", path), zap.Int("objects", len(doc.Shapes)))
	return nil
}
