package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// documentSchema describes the JSON form of an annotation document.
var documentSchema = map[string]interface{}{
	"type":        "object",
	"description": "Annotation document: folder, filename, path, database, size {height, width, depth}, verified, shapes",
	"properties": map[string]interface{}{
		"folder":   map[string]interface{}{"type": "string"},
		"filename": map[string]interface{}{"type": "string"},
		"path":     map[string]interface{}{"type": "string"},
		"database": map[string]interface{}{"type": "string"},
		"size": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"height": map[string]interface{}{"type": "integer"},
				"width":  map[string]interface{}{"type": "integer"},
				"depth":  map[string]interface{}{"type": "integer"},
			},
			"required": []string{"height", "width"},
		},
		"verified": map[string]interface{}{"type": "boolean"},
		"shapes": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"label": map[string]interface{}{"type": "string"},
					"kind": map[string]interface{}{
						"type": "string",
						"enum": []string{"point", "line", "bndbox", "polygon", "circle"},
					},
					"points": map[string]interface{}{
						"type":        "array",
						"description": "[[x,y],...]: bndbox takes 2 or 4 corners, circle takes [[cx,cy],[r,r]]",
						"items": map[string]interface{}{
							"type":     "array",
							"items":    map[string]interface{}{"type": "integer"},
							"minItems": 2,
							"maxItems": 2,
						},
					},
					"difficult": map[string]interface{}{"type": "boolean"},
				},
				"required": []string{"label", "kind", "points"},
			},
		},
	},
	"required": []string{"folder", "filename", "size"},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Codec
		{
			Name:        "voc_decode",
			Description: "Decode a PASCAL-VOC annotation (file path or inline XML) into a JSON document with one entry per shape.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to an .xml annotation file",
					},
					"xml": map[string]interface{}{
						"type":        "string",
						"description": "Annotation XML text, used instead of path",
					},
				},
			},
		},
		{
			Name:        "voc_encode",
			Description: "Encode a JSON annotation document as PASCAL-VOC XML. Only bndbox and circle shapes can be written.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"document": documentSchema,
				},
				"required": []string{"document"},
			},
		},
		{
			Name:        "voc_save",
			Description: "Encode a JSON annotation document and write it to disk. Defaults to <filename>.xml when no path is given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"document": documentSchema,
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Output path (optional)",
					},
				},
				"required": []string{"document"},
			},
		},

		// Image-backed
		{
			Name:        "voc_new",
			Description: "Create an empty annotation document for an image, filling folder, filename, path and size from the image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the image file",
					},
					"verified": map[string]interface{}{
						"type":        "boolean",
						"description": "Mark the annotation as verified (default from server config)",
					},
				},
				"required": []string{"image_path"},
			},
		},
		{
			Name:        "voc_crop_object",
			Description: "Crop the image region under one annotated object and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"annotation_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the .xml annotation file",
					},
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the image (defaults to the annotation's <path>)",
					},
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "0-based shape index in document order",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor for output (default: 1.0)",
						"default":     1.0,
					},
				},
				"required": []string{"annotation_path", "index"},
			},
		},
		{
			Name:        "voc_render",
			Description: "Draw every annotated shape over the image and return the preview as base64-encoded PNG, with the color used for each label.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"annotation_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the .xml annotation file",
					},
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the image (defaults to the annotation's <path>)",
					},
				},
				"required": []string{"annotation_path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
