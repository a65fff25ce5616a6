// Package filecheck validates uploaded documents before they are stored.
// Validate never panics; every problem is reported in the Result.
package filecheck

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"eac-registry/internal/core/documents"

	"github.com/gabriel-vasile/mimetype"
)

// MIME types accepted across document kinds
const (
	MIMEPDF  = "application/pdf"
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEDOC  = "application/msword"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// scanLimit caps how much content is searched for injected script
const scanLimit = 2 << 20

var allowedByKind = map[documents.Kind]map[string][]string{
	documents.KindCertificate: {
		MIMEPDF:  {".pdf"},
		MIMEJPEG: {".jpg", ".jpeg"},
		MIMEPNG:  {".png"},
	},
	documents.KindPhoto: {
		MIMEJPEG: {".jpg", ".jpeg"},
		MIMEPNG:  {".png"},
	},
	documents.KindLetter: {
		MIMEPDF:  {".pdf"},
		MIMEJPEG: {".jpg", ".jpeg"},
		MIMEPNG:  {".png"},
		MIMEDOC:  {".doc"},
		MIMEDOCX: {".docx"},
	},
}

var executableExtensions = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".com": true, ".scr": true, ".msi": true,
	".dll": true, ".sh": true, ".bash": true, ".ps1": true, ".vbs": true, ".js": true,
	".jar": true, ".php": true, ".phtml": true, ".py": true, ".pl": true, ".cgi": true,
	".asp": true, ".aspx": true, ".jsp": true, ".hta": true,
}

var executableMIMEs = []string{
	"application/vnd.microsoft.portable-executable",
	"application/x-msdownload",
	"application/x-executable",
	"application/x-elf",
	"application/x-mach-binary",
	"application/x-sharedlib",
	"text/x-shellscript",
	"text/x-php",
	"application/java-archive",
}

var maliciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script\b`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)vbscript\s*:`),
	regexp.MustCompile(`(?i)\bon(load|error|click|mouseover)\s*=`),
	regexp.MustCompile(`(?i)<\?php`),
	regexp.MustCompile(`(?i)\beval\s*\(`),
	regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b`),
	regexp.MustCompile(`(?i)\bdrop\s+(table|database)\b`),
	regexp.MustCompile(`(?i);\s*(delete\s+from|insert\s+into|update\s+\w+\s+set)\b`),
	regexp.MustCompile(`(?i)'\s*or\s*'?1'?\s*=\s*'?1`),
	regexp.MustCompile(`(?i)\bxp_cmdshell\b`),
}

var pdfPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/(JavaScript|JS|Launch|EmbeddedFile)\b`),
}

// Limits holds size ceilings in bytes
type Limits struct {
	Default int64
	PerType map[string]int64
}

// MaxFor returns the ceiling for a document type
func (l Limits) MaxFor(docType string) int64 {
	if v, ok := l.PerType[docType]; ok && v > 0 {
		return v
	}
	return l.Default
}

// FileInput is one upload to validate
type FileInput struct {
	Filename     string
	DeclaredMIME string
	DeclaredSize int64
	DocumentType string
	Content      []byte
}

// FileInfo describes the validated file
type FileInfo struct {
	Size      int64  `json:"size"`
	Extension string `json:"extension"`
	MimeType  string `json:"mime_type"`
	Hash      string `json:"hash"`
}

// Result is the outcome of Validate
type Result struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	FileInfo FileInfo `json:"file_info"`
}

// Validator checks uploads against size, type and content rules
type Validator struct {
	limits Limits
}

// New creates a validator
func New(limits Limits) *Validator {
	if limits.Default <= 0 {
		limits.Default = 5 << 20
	}
	return &Validator{limits: limits}
}

// Validate runs all checks against in
func (v *Validator) Validate(in FileInput) (res Result) {
	res.Errors = []string{}
	res.Warnings = []string{}
	defer func() {
		if r := recover(); r != nil {
			res.Errors = append(res.Errors, "file could not be inspected")
			res.IsValid = false
		}
	}()

	size := int64(len(in.Content))
	ext := strings.ToLower(filepath.Ext(in.Filename))
	sum := sha256.Sum256(in.Content)
	res.FileInfo = FileInfo{Size: size, Extension: ext, Hash: hex.EncodeToString(sum[:])}

	docType, known := documents.Lookup(in.DocumentType)
	if !known {
		res.Errors = append(res.Errors, fmt.Sprintf("unknown document type %q", in.DocumentType))
	}

	res.Errors = append(res.Errors, checkFilename(in.Filename)...)

	if size == 0 {
		res.Errors = append(res.Errors, "file is empty")
	}
	if limit := v.limits.MaxFor(in.DocumentType); size > limit {
		res.Errors = append(res.Errors, fmt.Sprintf("file size %d bytes exceeds the %d byte limit for %s", size, limit, in.DocumentType))
	}
	if in.DeclaredSize > 0 && in.DeclaredSize != size {
		res.Warnings = append(res.Warnings, fmt.Sprintf("declared size %d does not match received size %d", in.DeclaredSize, size))
	}

	detected := mimetype.Detect(in.Content)
	res.FileInfo.MimeType = canonical(detected)

	if known {
		allowed := allowedByKind[docType.Kind]
		declared := strings.ToLower(strings.TrimSpace(strings.Split(in.DeclaredMIME, ";")[0]))
		exts, ok := allowed[declared]
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("file type %q is not accepted for %s", in.DeclaredMIME, docType.Label))
		} else if !contains(exts, ext) {
			res.Errors = append(res.Errors, fmt.Sprintf("extension %q does not match declared type %q", ext, declared))
		}
		if declared != "" && res.FileInfo.MimeType != declared {
			res.Warnings = append(res.Warnings, fmt.Sprintf("declared type %q differs from detected type %q", declared, res.FileInfo.MimeType))
		}
	}

	for _, m := range executableMIMEs {
		if detected.Is(m) {
			res.Errors = append(res.Errors, "executable content is not accepted")
			break
		}
	}

	patterns := maliciousPatterns
	if res.FileInfo.MimeType == MIMEPDF {
		patterns = append(append([]*regexp.Regexp{}, maliciousPatterns...), pdfPatterns...)
	}
	if pattern := scanContent(in.Content, patterns); pattern != "" {
		res.Errors = append(res.Errors, "file contains potentially malicious content")
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

// canonical maps detected types onto the allow-list vocabulary
func canonical(m *mimetype.MIME) string {
	for _, want := range []string{MIMEPDF, MIMEJPEG, MIMEPNG, MIMEDOCX, MIMEDOC} {
		if m.Is(want) {
			return want
		}
	}
	// legacy .doc files are generic OLE containers
	for p := m; p != nil; p = p.Parent() {
		if p.Is("application/x-ole-storage") {
			return MIMEDOC
		}
	}
	return strings.Split(m.String(), ";")[0]
}

func checkFilename(name string) []string {
	var errs []string
	if strings.TrimSpace(name) == "" {
		return []string{"filename is required"}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\\x00") {
		errs = append(errs, "filename contains path traversal characters")
	}
	parts := strings.Split(strings.ToLower(name), ".")
	for _, p := range parts[1:] {
		if executableExtensions["."+strings.TrimSpace(p)] {
			errs = append(errs, "filename has an executable extension")
			break
		}
	}
	return errs
}

func scanContent(content []byte, patterns []*regexp.Regexp) string {
	if len(content) > scanLimit {
		content = content[:scanLimit]
	}
	for _, re := range patterns {
		if re.Match(content) {
			return re.String()
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
