// Package ipsxml reads and writes product components as XML documents.
//
// A document has a ProductCmpt root holding the static container's values
// and links, followed by one Generation element per generation:
//
//	<ProductCmpt name="motor.Basic" productCmptType="motor.Product" template="motor.Template">
//	  <AttributeValue attribute="name" id="..." templateValueStatus="defined">
//	    <Value>Basic</Value>
//	  </AttributeValue>
//	  <Link association="coverages" target="motor.Collision" minCardinality="0" maxCardinality="*" defaultCardinality="0"/>
//	  <Generation validFrom="2020-01-01">...</Generation>
//	</ProductCmpt>
//
// Values that are not DEFINED are written without payload. A missing or
// unknown templateValueStatus reads as DEFINED. The legacy status
// "excluded" reads as UNDEFINED and is written back as "undefined".
package ipsxml
