package formatter

import (
	"bytes"

	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(t Transcript) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titlePar.AddRun().AddText(baseTitle)

	if t.Question != "" {
		questionPar := doc.AddParagraph()
		questionPar.SetStyle("Heading2")
		questionPar.AddRun().AddText("質問")
		doc.AddParagraph().AddRun().AddText(t.Question)
	}

	answerPar := doc.AddParagraph()
	answerPar.SetStyle("Heading2")
	answerPar.AddRun().AddText("回答")
	doc.AddParagraph().AddRun().AddText(t.Answer)

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
