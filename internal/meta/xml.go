package meta

import "encoding/xml"

// The LIF metadata payload is one XML document rooted at
// LMSDataContainerHeader. Acquisition folders and images are both Element
// nodes; folders carry Children, images carry Data/Image. Only the
// elements needed to locate dimensions, channels, attachments and memory
// references are modeled; everything else in the vendor schema is ignored
// by the decoder.

type xmlRoot struct {
	XMLName  xml.Name     `xml:"LMSDataContainerHeader"`
	Version  string       `xml:"Version,attr"`
	Elements []xmlElement `xml:"Element"`
}

type xmlElement struct {
	Name     string       `xml:"Name,attr"`
	Children []xmlElement `xml:"Children>Element"`
	Memory   *xmlMemory   `xml:"Memory"`
	Data     *xmlData     `xml:"Data"`
}

type xmlMemory struct {
	Size          int64  `xml:"Size,attr"`
	MemoryBlockID string `xml:"MemoryBlockID,attr"`
}

type xmlData struct {
	Image *xmlImage `xml:"Image"`
}

type xmlImage struct {
	Description   xmlImageDescription `xml:"ImageDescription"`
	Attachments   []xmlAttachment     `xml:"Attachment"`
	TimeStampList *xmlTimeStampList   `xml:"TimeStampList"`
}

type xmlImageDescription struct {
	Dimensions []xmlDimension `xml:"Dimensions>DimensionDescription"`
	Channels   []xmlChannel   `xml:"Channels>ChannelDescription"`
}

type xmlDimension struct {
	DimID            int     `xml:"DimID,attr"`
	NumberOfElements int     `xml:"NumberOfElements,attr"`
	Origin           float64 `xml:"Origin,attr"`
	Length           float64 `xml:"Length,attr"`
	Unit             string  `xml:"Unit,attr"`
	BytesInc         int64   `xml:"BytesInc,attr"`
	BitInc           int     `xml:"BitInc,attr"`
}

type xmlChannel struct {
	DataType   int    `xml:"DataType,attr"`
	ChannelTag int    `xml:"ChannelTag,attr"`
	Resolution int    `xml:"Resolution,attr"`
	Min        string `xml:"Min,attr"`
	Max        string `xml:"Max,attr"`
	Unit       string `xml:"Unit,attr"`
	LUTName    string `xml:"LUTName,attr"`
	BytesInc   int64  `xml:"BytesInc,attr"`
	BitInc     int    `xml:"BitInc,attr"`
}

type xmlAttachment struct {
	Name     string          `xml:"Name,attr"`
	Tiles    []xmlTile       `xml:"Tile"`
	Confocal *xmlSettingDefn `xml:"ATLConfocalSettingDefinition"`
}

type xmlSettingDefn struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type xmlTile struct {
	FieldX int     `xml:"FieldX,attr"`
	FieldY int     `xml:"FieldY,attr"`
	PosX   float64 `xml:"PosX,attr"`
	PosY   float64 `xml:"PosY,attr"`
}

// Timestamp lists come in two layouts. The newer one stores hexadecimal
// Windows FILETIME words as character data with a count attribute; the
// older one stores one TimeStamp child element per plane with the FILETIME
// split across two attributes.
type xmlTimeStampList struct {
	NumberOfTimeStamps int            `xml:"NumberOfTimeStamps,attr"`
	Text               string         `xml:",chardata"`
	Stamps             []xmlTimeStamp `xml:"TimeStamp"`
}

type xmlTimeStamp struct {
	HighInteger uint32 `xml:"HighInteger,attr"`
	LowInteger  uint32 `xml:"LowInteger,attr"`
}
