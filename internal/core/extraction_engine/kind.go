package extraction_engine

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DocumentKind selects the extraction strategy for a file.
type DocumentKind int

const (
	// KindText is the fallback: the content is decoded as text and returned as is.
	KindText DocumentKind = iota
	KindPDF
	KindDOCX
)

func (k DocumentKind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindDOCX:
		return "docx"
	default:
		return "text"
	}
}

// KindFromMIME maps a declared MIME type to a DocumentKind. The match is exact;
// empty and unrecognised types (application/octet-stream included) map to KindText.
func KindFromMIME(declared string) DocumentKind {
	switch declared {
	case MIMEPDF:
		return KindPDF
	case MIMEDOCX:
		return KindDOCX
	default:
		return KindText
	}
}
