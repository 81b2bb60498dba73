package voc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// annotationXML wraps object elements in a minimal annotation document.
func annotationXML(attrs, objects string) []byte {
	return []byte(`<annotation` + attrs + `>
	<folder>images</folder>
	<filename>dog.jpg</filename>
	<source><database>Unknown</database></source>
	<size><width>200</width><height>100</height><depth>3</depth></size>
	<segmented>0</segmented>
` + objects + `
</annotation>`)
}

func TestDecode_AllShapeKinds(t *testing.T) {
	data := annotationXML("", `
	<object><name>nose</name><difficult>0</difficult><point><x1>5</x1><y1>6</y1></point></object>
	<object><name>edge</name><difficult>1</difficult><line><x1>1</x1><y1>2</y1><x2>3</x2><y2>4</y2></line></object>
	<object><name>dog</name><pose>Unspecified</pose><truncated>0</truncated><difficult>0</difficult>
		<bndbox><xmin>10</xmin><ymin>20</ymin><xmax>30</xmax><ymax>40</ymax></bndbox></object>
	<object><name>roof</name><difficult>0</difficult>
		<polygon><x1>0</x1><y1>0</y1><x2>10</x2><y2>0</y2><x3>5</x3><y3>8</y3></polygon></object>
	<object><name>ball</name><difficult>0</difficult><circle><cx>50</cx><cy>60</cy><r>7</r></circle></object>
`)

	doc, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, doc.Shapes, 5)

	tests := []struct {
		label     string
		kind      Kind
		points    []Point
		difficult bool
	}{
		{"nose", KindPoint, []Point{{5, 6}}, false},
		{"edge", KindLine, []Point{{1, 2}, {3, 4}}, true},
		{"dog", KindBndBox, []Point{{10, 20}, {30, 20}, {30, 40}, {10, 40}}, false},
		{"roof", KindPolygon, []Point{{0, 0}, {10, 0}, {5, 8}}, false},
		{"ball", KindCircle, []Point{{50, 60}, {7, 7}}, false},
	}

	for i, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			s := doc.Shapes[i]
			assert.Equal(t, tt.label, s.Label)
			assert.Equal(t, tt.kind, s.Kind())
			assert.Equal(t, tt.points, s.Points())
			assert.Equal(t, tt.difficult, s.Difficult)
			assert.Nil(t, s.LineColor)
			assert.Nil(t, s.FillColor)
		})
	}
}

func TestDecode_Metadata(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="utf-8"?>
<annotation verified="yes">
	<folder>imgs</folder>
	<filename>cat.png</filename>
	<path>/tmp/imgs/cat.png</path>
	<source><database>Shelter</database></source>
	<size><width>640</width><height>480</height><depth>1</depth></size>
	<segmented>0</segmented>
</annotation>`)

	doc, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "imgs", doc.Folder)
	assert.Equal(t, "cat.png", doc.Filename)
	assert.Equal(t, "/tmp/imgs/cat.png", doc.Path)
	assert.Equal(t, "Shelter", doc.Database)
	assert.Equal(t, ImageSize{Height: 480, Width: 640, Depth: 1}, doc.Size)
	assert.True(t, doc.Verified)
	assert.NotNil(t, doc.Shapes)
	assert.Empty(t, doc.Shapes)
}

func TestDecode_Verified(t *testing.T) {
	tests := []struct {
		name  string
		attrs string
		want  bool
	}{
		{"yes", ` verified="yes"`, true},
		{"no", ` verified="no"`, false},
		{"capitalized", ` verified="Yes"`, false},
		{"absent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(annotationXML(tt.attrs, ""))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Verified)
		})
	}
}

func TestDecode_PriorityOrder(t *testing.T) {
	data := annotationXML("", `
	<object><name>mixed</name><difficult>0</difficult>
		<bndbox><xmin>10</xmin><ymin>20</ymin><xmax>30</xmax><ymax>40</ymax></bndbox>
		<point><x1>7</x1><y1>8</y1></point>
	</object>
	<object><name>mixed2</name><difficult>0</difficult>
		<circle><cx>1</cx><cy>2</cy><r>3</r></circle>
		<polygon><x1>0</x1><y1>0</y1><x2>4</x2><y2>4</y2></polygon>
	</object>`)

	doc, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, doc.Shapes, 2)
	assert.Equal(t, Keypoint{7, 8}, doc.Shapes[0].Geometry)
	assert.Equal(t, KindPolygon, doc.Shapes[1].Kind())
}

func TestDecode_SkipsObjectsWithoutShape(t *testing.T) {
	data := annotationXML("", `
	<object><name>first</name><difficult>0</difficult><circle><cx>1</cx><cy>2</cy><r>3</r></circle></object>
	<object><name>ghost</name><pose>Unspecified</pose></object>
	<object></object>
	<object><name>last</name><difficult>1</difficult><point><x1>4</x1><y1>5</y1></point></object>`)

	doc, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, doc.Shapes, 2)
	assert.Equal(t, "first", doc.Shapes[0].Label)
	assert.Equal(t, "last", doc.Shapes[1].Label)
}

func TestDecode_MissingRequiredElement(t *testing.T) {
	tests := []struct {
		name    string
		object  string
		element string
	}{
		{
			"missing difficult",
			`<object><name>dog</name><bndbox><xmin>1</xmin><ymin>2</ymin><xmax>3</xmax><ymax>4</ymax></bndbox></object>`,
			"difficult",
		},
		{
			"missing name",
			`<object><difficult>0</difficult><circle><cx>1</cx><cy>2</cy><r>3</r></circle></object>`,
			"name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid := `<object><name>ok</name><difficult>0</difficult><point><x1>1</x1><y1>1</y1></point></object>`
			doc, err := Decode(annotationXML("", valid+tt.object+valid))

			assert.Nil(t, doc)
			require.ErrorIs(t, err, ErrMissingRequiredElement)

			var objErr *ObjectError
			require.True(t, errors.As(err, &objErr))
			assert.Equal(t, 1, objErr.Index)
			assert.Equal(t, tt.element, objErr.Element)
		})
	}
}

func TestDecode_EmptyName(t *testing.T) {
	doc, err := Decode(annotationXML("", `<object><name/><difficult>0</difficult><point><x1>1</x1><y1>1</y1></point></object>`))
	require.NoError(t, err)
	require.Len(t, doc.Shapes, 1)
	assert.Equal(t, "", doc.Shapes[0].Label)
}

func TestDecode_Difficult(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"0", false},
		{"1", true},
		{" 1 ", true},
		{"2", true},
		{"True", true},
		{"False", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			obj := `<object><name>x</name><difficult>` + tt.text + `</difficult><point><x1>1</x1><y1>1</y1></point></object>`
			doc, err := Decode(annotationXML("", obj))
			require.NoError(t, err)
			require.Len(t, doc.Shapes, 1)
			assert.Equal(t, tt.want, doc.Shapes[0].Difficult)
		})
	}
}

func TestDecode_Polygon(t *testing.T) {
	t.Run("six children give three vertices", func(t *testing.T) {
		obj := `<object><name>tri</name><difficult>0</difficult>
			<polygon><x1>1</x1><y1>2</y1><x2>3</x2><y2>4</y2><x3>5</x3><y3>6</y3></polygon></object>`
		doc, err := Decode(annotationXML("", obj))
		require.NoError(t, err)
		require.Len(t, doc.Shapes, 1)
		assert.Equal(t, []Point{{1, 2}, {3, 4}, {5, 6}}, doc.Shapes[0].Points())
	})

	t.Run("children out of order are read by name", func(t *testing.T) {
		obj := `<object><name>tri</name><difficult>0</difficult>
			<polygon><y2>4</y2><x1>1</x1><x2>3</x2><y1>2</y1></polygon></object>`
		doc, err := Decode(annotationXML("", obj))
		require.NoError(t, err)
		assert.Equal(t, []Point{{1, 2}, {3, 4}}, doc.Shapes[0].Points())
	})

	t.Run("odd child count", func(t *testing.T) {
		obj := `<object><name>bad</name><difficult>0</difficult>
			<polygon><x1>1</x1><y1>2</y1><x2>3</x2></polygon></object>`
		doc, err := Decode(annotationXML("", obj))
		assert.Nil(t, doc)
		assert.ErrorIs(t, err, ErrMalformedGeometry)
	})

	t.Run("even count with wrong names", func(t *testing.T) {
		obj := `<object><name>bad</name><difficult>0</difficult>
			<polygon><x1>1</x1><y1>2</y1><a>3</a><b>4</b></polygon></object>`
		_, err := Decode(annotationXML("", obj))
		assert.ErrorIs(t, err, ErrMalformedGeometry)
	})
}

func TestDecode_MalformedGeometry(t *testing.T) {
	tests := []struct {
		name   string
		object string
	}{
		{"float coordinate", `<object><name>a</name><difficult>0</difficult><point><x1>1.5</x1><y1>1</y1></point></object>`},
		{"text coordinate", `<object><name>a</name><difficult>0</difficult><line><x1>a</x1><y1>1</y1><x2>2</x2><y2>2</y2></line></object>`},
		{"missing coordinate", `<object><name>a</name><difficult>0</difficult><bndbox><xmin>1</xmin><ymin>1</ymin><xmax>2</xmax></bndbox></object>`},
		{"empty radius", `<object><name>a</name><difficult>0</difficult><circle><cx>1</cx><cy>1</cy><r></r></circle></object>`},
		{"non-integer difficult", `<object><name>a</name><difficult>maybe</difficult><point><x1>1</x1><y1>1</y1></point></object>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(annotationXML("", tt.object))
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, ErrMalformedGeometry)
		})
	}
}

func TestDecode_ParseError(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not xml", "hello world"},
		{"unclosed", "<annotation><folder>x</folder>"},
		{"mismatched", "<annotation><folder>x</filename></annotation>"},
		{"wrong root", "<labels><object/></labels>"},
		{"trailing text", "<annotation><folder>f</folder></annotation>garbage<<<"},
		{"second root", `<annotation/><annotation verified="yes"><object><name>a</name>
			<difficult>0</difficult><point><x1>1</x1><y1>2</y1></point></object></annotation>`},
		{"dangling object", `<annotation><object><name>a</name><difficult>0</difficult>
			<point><x1>1</x1><y1>2</y1></point></object></annotation><object>`},
		{"stray end tag", "<annotation></annotation></object>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.data))
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestDecode_TrailingWhitespaceAndComments(t *testing.T) {
	data := append(annotationXML("", ""), []byte("\n\t<!-- saved by hand -->\n")...)

	doc, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "dog.jpg", doc.Filename)
}

func TestDecode_RepeatedElementsUseFirst(t *testing.T) {
	t.Run("name and difficult", func(t *testing.T) {
		doc, err := Decode(annotationXML("", `<object>
			<name>first</name><name>second</name>
			<difficult>1</difficult><difficult>0</difficult>
			<point><x1>1</x1><y1>2</y1></point></object>`))
		require.NoError(t, err)
		require.Len(t, doc.Shapes, 1)
		assert.Equal(t, "first", doc.Shapes[0].Label)
		assert.True(t, doc.Shapes[0].Difficult)
	})

	t.Run("shape element", func(t *testing.T) {
		doc, err := Decode(annotationXML("", `<object><name>tri</name><difficult>0</difficult>
			<polygon><x1>0</x1><y1>0</y1><x2>5</x2><y2>0</y2><x3>0</x3><y3>5</y3></polygon>
			<polygon><x1>9</x1><y1>9</y1></polygon></object>`))
		require.NoError(t, err)
		require.Len(t, doc.Shapes, 1)
		assert.Equal(t, Polygon{Vertices: []Point{{0, 0}, {5, 0}, {0, 5}}}, doc.Shapes[0].Geometry)
	})

	t.Run("document fields", func(t *testing.T) {
		doc, err := Decode([]byte(`<annotation><folder>a</folder><folder>b</folder>
			<filename>one.jpg</filename><filename>two.jpg</filename></annotation>`))
		require.NoError(t, err)
		assert.Equal(t, "a", doc.Folder)
		assert.Equal(t, "one.jpg", doc.Filename)
	})
}

func TestDecode_LenientSize(t *testing.T) {
	data := []byte(`<annotation><folder>f</folder><filename>x.jpg</filename>
		<size><width>wide</width><height>10</height></size></annotation>`)

	doc, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ImageSize{Height: 10}, doc.Size)
}
