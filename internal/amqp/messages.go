package amqp

import (
	"encoding/json"
	"time"
)

// ReportRequestMessage asks the worker for an on-demand report. Dates are
// ISO calendar days; empty fields mean "no constraint". Formats is any
// subset of csv, xlsx, pdf; empty means all three.
type ReportRequestMessage struct {
	StartDate  string    `json:"start_date,omitempty"`
	EndDate    string    `json:"end_date,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	AccountID  string    `json:"account_id,omitempty"`
	Formats    []string  `json:"formats,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ReportGeneratedMessage announces a completed run to dashboard
// collaborators.
type ReportGeneratedMessage struct {
	RunID           string    `json:"run_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	TxnCount        int       `json:"txn_count"`
	TotalMilliunits int64     `json:"total_milliunits"`
	CSVPath         string    `json:"csv_path,omitempty"`
	XLSXPath        string    `json:"xlsx_path,omitempty"`
	PDFPath         string    `json:"pdf_path,omitempty"`
}

func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (m *ReportGeneratedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportGeneratedMessageFromJSON(data []byte) (*ReportGeneratedMessage, error) {
	var msg ReportGeneratedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
