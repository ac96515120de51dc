package leads

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/localnerve/jam-build-landing/internal/documents"
)

var csvHeader = []string{
	"Nome", "WhatsApp", "CNPJ", "Tipo Loja", "Data Envio", "Status",
	"Origem", "Dispositivo", "Localização", "Tempo na Página", "ID Lead", "Tentativas",
}

// ExportFilename names a CSV export made on day
func ExportFilename(day time.Time) string {
	return "leads-analytics-" + day.Format(time.DateOnly) + ".csv"
}

// ExportCSV writes one row per lead. Dates are formatted in loc.
func ExportCSV(w io.Writer, leads []documents.Lead, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, l := range leads {
		taxID := "Não"
		if l.HasTaxID() {
			taxID = "Sim"
		}
		timeOnPage := ""
		if l.TimeOnPage > 0 {
			timeOnPage = strconv.Itoa(l.TimeOnPage)
		}
		remoteID := ""
		if l.Response != nil {
			remoteID = l.Response.RemoteID.String()
		}

		err := cw.Write([]string{
			l.Name,
			l.Phone,
			taxID,
			l.StoreType,
			l.SubmittedAt.In(loc).Format("02/01/2006 15:04:05"),
			string(l.Status),
			l.Source,
			l.Device,
			l.Location,
			timeOnPage,
			remoteID,
			strconv.Itoa(l.Attempts),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
