// Package sunat construye el resumen XML del comprobante electrónico que se
// adjunta al correo en empresas con facturación electrónica activa. Es un
// resumen informativo del documento, no el XML UBL firmado que viaja a SUNAT.
package sunat

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/mesafacil/pos-api/internal/application/fiscal"
)

var _ fiscal.SummaryBuilder = (*SummaryBuilder)(nil)

// SummaryBuilder implementa fiscal.SummaryBuilder con etree.
type SummaryBuilder struct{}

// NewSummaryBuilder crea el builder.
func NewSummaryBuilder() *SummaryBuilder {
	return &SummaryBuilder{}
}

// BuildXML genera el resumen XML del comprobante.
func (b *SummaryBuilder) BuildXML(in fiscal.RenderInput) ([]byte, error) {
	if in.Comprobante == nil || in.Company == nil || in.Payment == nil {
		return nil, fmt.Errorf("sunat: faltan comprobante, empresa o pago")
	}
	c := in.Comprobante

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("ResumenComprobante")
	root.CreateAttr("version", "1.0")

	emisor := root.CreateElement("Emisor")
	emisor.CreateElement("RazonSocial").SetText(in.Company.Name)
	if in.Company.RUC != "" {
		emisor.CreateElement("RUC").SetText(in.Company.RUC)
	}

	docEl := root.CreateElement("Documento")
	docEl.CreateElement("Tipo").SetText(c.Type)
	docEl.CreateElement("Serie").SetText(c.Series)
	docEl.CreateElement("Numero").SetText(c.Number)
	docEl.CreateElement("FechaEmision").SetText(c.IssuedAt.Format("2006-01-02T15:04:05-07:00"))
	docEl.CreateElement("Moneda").SetText(c.Currency)
	docEl.CreateElement("HashVerificacion").SetText(c.VerificationHash)

	detalle := root.CreateElement("Detalle")
	for _, it := range in.Items {
		linea := detalle.CreateElement("Linea")
		linea.CreateElement("Descripcion").SetText(it.Description)
		linea.CreateElement("Cantidad").SetText(it.Quantity.String())
		linea.CreateElement("PrecioUnitario").SetText(it.UnitPrice.StringFixed(2))
		linea.CreateElement("Subtotal").SetText(it.Subtotal.StringFixed(2))
	}

	totales := root.CreateElement("Totales")
	totales.CreateElement("Subtotal").SetText(c.Subtotal.StringFixed(2))
	totales.CreateElement("IGV").SetText(c.Tax.StringFixed(2))
	totales.CreateElement("Descuento").SetText(c.Discount.StringFixed(2))
	totales.CreateElement("Total").SetText(c.Total.StringFixed(2))

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("sunat: serializar resumen: %w", err)
	}
	return out, nil
}
