package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/voc-tools-mcp/internal/imaging"
	"github.com/ironsheep/voc-tools-mcp/internal/voc"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "voc_decode").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("Tool execution failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "voc_decode":
		return s.handleDecode(args)
	case "voc_encode":
		return s.handleEncode(args)
	case "voc_save":
		return s.handleSave(args)
	case "voc_new":
		return s.handleNew(args)
	case "voc_crop_object":
		return s.handleCropObject(args)
	case "voc_render":
		return s.handleRender(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Codec Handlers ===

type decodeArgs struct {
	Path string `json:"path"`
	XML  string `json:"xml"`
}

func (s *Server) handleDecode(args json.RawMessage) (interface{}, error) {
	var a decodeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	switch {
	case a.Path != "" && a.XML != "":
		return nil, errors.New("provide either path or xml, not both")
	case a.Path != "":
		return voc.Load(a.Path)
	case a.XML != "":
		return voc.Decode([]byte(a.XML))
	default:
		return nil, errors.New("one of path or xml is required")
	}
}

type documentArgs struct {
	Document *voc.Document `json:"document"`
	Path     string        `json:"path"`
}

// document returns the document argument with configured defaults applied.
func (s *Server) document(a documentArgs) (*voc.Document, error) {
	if a.Document == nil {
		return nil, errors.New("document is required")
	}
	if a.Document.Database == "" {
		a.Document.Database = s.cfg.Annotation.Database
	}
	return a.Document, nil
}

type encodeResult struct {
	XML string `json:"xml"`
}

func (s *Server) handleEncode(args json.RawMessage) (interface{}, error) {
	var a documentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, err := s.document(a)
	if err != nil {
		return nil, err
	}
	data, err := voc.Encode(doc)
	if err != nil {
		return nil, err
	}
	return &encodeResult{XML: string(data)}, nil
}

type saveResult struct {
	Path    string `json:"path"`
	Objects int    `json:"objects"`
}

func (s *Server) handleSave(args json.RawMessage) (interface{}, error) {
	var a documentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, err := s.document(a)
	if err != nil {
		return nil, err
	}
	path, err := voc.Save(doc, a.Path)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Saved annotation", zap.String("path", path), zap.Int("objects", len(doc.Shapes)))
	return &saveResult{Path: path, Objects: len(doc.Shapes)}, nil
}

// === Image Handlers ===

type newArgs struct {
	ImagePath string `json:"image_path"`
	Verified  *bool  `json:"verified"`
}

func (s *Server) handleNew(args json.RawMessage) (interface{}, error) {
	var a newArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ImagePath == "" {
		return nil, errors.New("image_path is required")
	}
	verified := s.cfg.Annotation.Verified
	if a.Verified != nil {
		verified = *a.Verified
	}

	desc, err := imaging.DescribeImage(s.cache, a.ImagePath)
	if err != nil {
		return nil, err
	}
	return imaging.NewDocument(desc, s.cfg.Annotation.Database, verified), nil
}

type cropObjectArgs struct {
	AnnotationPath string  `json:"annotation_path"`
	ImagePath      string  `json:"image_path"`
	Index          int     `json:"index"`
	Scale          float64 `json:"scale"`
}

type cropObjectResult struct {
	*imaging.CropResult
	Label     string   `json:"label"`
	Kind      voc.Kind `json:"kind"`
	Difficult bool     `json:"difficult"`
}

func (s *Server) handleCropObject(args json.RawMessage) (interface{}, error) {
	var a cropObjectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	doc, img, err := s.loadAnnotated(a.AnnotationPath, a.ImagePath)
	if err != nil {
		return nil, err
	}
	if a.Index < 0 || a.Index >= len(doc.Shapes) {
		return nil, fmt.Errorf("index %d out of range: annotation has %d objects", a.Index, len(doc.Shapes))
	}

	shape := doc.Shapes[a.Index]
	crop, err := imaging.CropShape(img, shape, a.Scale)
	if err != nil {
		return nil, err
	}
	return &cropObjectResult{
		CropResult: crop,
		Label:      shape.Label,
		Kind:       shape.Kind(),
		Difficult:  shape.Difficult,
	}, nil
}

type renderArgs struct {
	AnnotationPath string `json:"annotation_path"`
	ImagePath      string `json:"image_path"`
}

func (s *Server) handleRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	doc, img, err := s.loadAnnotated(a.AnnotationPath, a.ImagePath)
	if err != nil {
		return nil, err
	}
	return imaging.RenderPNG(img, doc, imaging.PreviewOptions(s.cfg.Preview))
}

// loadAnnotated loads an annotation file and its image. An empty imagePath
// falls back to the document's recorded path.
func (s *Server) loadAnnotated(annotationPath, imagePath string) (*voc.Document, image.Image, error) {
	if annotationPath == "" {
		return nil, nil, errors.New("annotation_path is required")
	}
	doc, err := voc.Load(annotationPath)
	if err != nil {
		return nil, nil, err
	}

	if imagePath == "" {
		imagePath = doc.Path
	}
	if imagePath == "" {
		return nil, nil, errors.New("image_path is required: annotation records no image path")
	}

	img, err := s.cache.Load(imagePath)
	if err != nil {
		return nil, nil, err
	}
	return doc, img, nil
}
