// Package ubl construye la representación XML (estilo UBL 2.1) de una factura
// y el digest SHA-256 de su forma canónica.
package ubl

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/money"
)

// Namespaces UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// Currency moneda de todos los montos.
const Currency = "BOB"

var _ appbilling.InvoiceXMLBuilder = (*Builder)(nil)

// Builder implementa billing.InvoiceXMLBuilder con etree.
type Builder struct{}

// NewBuilder crea el builder.
func NewBuilder() *Builder { return &Builder{} }

// BuildInvoiceXML genera el XML y el digest base64(SHA-256(C14N(xml))).
func (b *Builder) BuildInvoiceXML(doc appbilling.InvoiceDocument) ([]byte, string, error) {
	if doc.Invoice == nil || doc.Client == nil {
		return nil, "", fmt.Errorf("ubl: factura o cliente ausente")
	}
	inv := doc.Invoice

	xdoc := etree.NewDocument()
	xdoc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := xdoc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "ID", inv.NumeroFactura)
	cbc(root, "IssueDate", inv.FechaEmision.Format("2006-01-02"))
	cbc(root, "InvoiceTypeCode", inv.TipoComprobante.String())
	if inv.Observaciones != "" {
		cbc(root, "Note", inv.Observaciones)
	}
	cbc(root, "DocumentCurrencyCode", Currency)
	cbc(root, "LineCountNumeric", strconv.Itoa(len(inv.Detalles)))
	root.CreateElement("cac:InvoicePeriod").CreateElement("cbc:DescriptionCode").SetText(inv.Estado.String())

	supplier := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")
	party(supplier, doc.Issuer.NIT, doc.Issuer.Name)

	customer := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")
	party(customer, strconv.FormatInt(doc.Client.NIT, 10), doc.Client.FullName())
	if email := doc.Client.EmailValue(); email != "" {
		customer.CreateElement("cac:Contact").CreateElement("cbc:ElectronicMail").SetText(email)
	}
	if doc.Client.Ciudad != "" || doc.Client.Direccion != "" {
		addr := customer.CreateElement("cac:PostalAddress")
		if doc.Client.Direccion != "" {
			cbc(addr, "StreetName", doc.Client.Direccion)
		}
		if doc.Client.Ciudad != "" {
			cbc(addr, "CityName", doc.Client.Ciudad)
		}
		if doc.Client.Departamento != "" {
			cbc(addr, "CountrySubentity", doc.Client.Departamento)
		}
	}

	taxTotal(root, "IVA", inv.Subtotal, billing.IVARate, inv.IVA)
	taxTotal(root, "IT", inv.Subtotal, billing.ITRate, inv.IT)

	lmt := root.CreateElement("cac:LegalMonetaryTotal")
	amount(lmt, "cbc:LineExtensionAmount", inv.Subtotal)
	amount(lmt, "cbc:TaxExclusiveAmount", inv.Subtotal)
	amount(lmt, "cbc:TaxInclusiveAmount", inv.Total)
	amount(lmt, "cbc:PayableAmount", inv.Total)

	for i, d := range inv.Detalles {
		invoiceLine(root, i+1, d)
	}

	xdoc.Indent(2)
	out, err := xdoc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("ubl: serializar: %w", err)
	}
	digest, err := Digest(out)
	if err != nil {
		return nil, "", err
	}
	return out, digest, nil
}

// Digest devuelve base64(SHA-256) de la forma canónica (C14N) del XML.
// La declaración XML no forma parte de la forma canónica.
func Digest(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("<?xml")) {
		if end := bytes.Index(data, []byte("?>")); end >= 0 {
			data = data[end+2:]
		}
	}
	canonical, err := c14n.Canonicalize(xml.NewDecoder(bytes.NewReader(data)))
	if err != nil {
		return "", fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func cbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, tag string, v decimal.Decimal) {
	el := parent.CreateElement(tag)
	el.CreateAttr("currencyID", Currency)
	el.SetText(money.Format(v))
}

func party(p *etree.Element, nit, name string) {
	cbc(p.CreateElement("cac:PartyIdentification"), "ID", nit)
	cbc(p.CreateElement("cac:PartyName"), "Name", name)
}

func taxTotal(root *etree.Element, scheme string, base, rate, tax decimal.Decimal) {
	tt := root.CreateElement("cac:TaxTotal")
	amount(tt, "cbc:TaxAmount", tax)
	sub := tt.CreateElement("cac:TaxSubtotal")
	amount(sub, "cbc:TaxableAmount", base)
	amount(sub, "cbc:TaxAmount", tax)
	cat := sub.CreateElement("cac:TaxCategory")
	cbc(cat, "Percent", rate.Shift(2).StringFixed(2))
	cbc(cat.CreateElement("cac:TaxScheme"), "ID", scheme)
}

func invoiceLine(root *etree.Element, n int, d entity.InvoiceDetail) {
	line := root.CreateElement("cac:InvoiceLine")
	cbc(line, "ID", strconv.Itoa(n))
	qty := cbc(line, "InvoicedQuantity", strconv.Itoa(d.Cantidad))
	if d.UnidadMedida != "" {
		qty.CreateAttr("unitCode", d.UnidadMedida)
	}
	amount(line, "cbc:LineExtensionAmount", d.Subtotal)
	if !d.Descuento.IsZero() {
		ac := line.CreateElement("cac:AllowanceCharge")
		cbc(ac, "ChargeIndicator", "false")
		amount(ac, "cbc:Amount", d.Descuento)
	}
	item := line.CreateElement("cac:Item")
	cbc(item, "Description", d.Descripcion)
	if d.CodigoProducto != "" {
		cbc(item.CreateElement("cac:SellersItemIdentification"), "ID", d.CodigoProducto)
	}
	amount(line.CreateElement("cac:Price"), "cbc:PriceAmount", d.PrecioUnitario)
}
