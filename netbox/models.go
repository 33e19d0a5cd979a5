package netbox

// Nested is the short form NetBox embeds for related objects.
type Nested struct {
	ID      int    `json:"id,omitempty"`
	URL     string `json:"url,omitempty"`
	Name    string `json:"name,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Display string `json:"display,omitempty"`
}

type NestedType struct {
	ID           int    `json:"id,omitempty"`
	URL          string `json:"url,omitempty"`
	Name         string `json:"name,omitempty"`
	Slug         string `json:"slug,omitempty"`
	Display      string `json:"display,omitempty"`
	Manufacturer struct {
		ID          int    `json:"id,omitempty"`
		URL         string `json:"url,omitempty"`
		Display     string `json:"display,omitempty"`
		Name        string `json:"name,omitempty"`
		Slug        string `json:"slug,omitempty"`
		Description string `json:"description,omitempty"`
	} `json:"manufacturer,omitempty"`
}

// Choice represents a field in NetBox that is chosen from a predefined list of options.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// NestedIP represents nested IP address fields within a device record.
type NestedIP struct {
	ID      int    `json:"id,omitempty"`
	URL     string `json:"url,omitempty"`
	Address string `json:"address,omitempty"`
}

type Device struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Display    string     `json:"display"`
	DeviceType NestedType `json:"device_type"`
	DeviceRole Nested     `json:"role"`
	Site       Nested     `json:"site"`
	Rack       Nested     `json:"rack"`
	Status     Choice     `json:"status"`
	PrimaryIP  NestedIP   `json:"primary_ip"`
}

type VLAN struct {
	ID      int    `json:"id,omitempty"`
	VID     int    `json:"vid"`
	Name    string `json:"name"`
	Display string `json:"display,omitempty"`
	Site    Nested `json:"site,omitempty"`
	Status  Choice `json:"status,omitempty"`
}

type Prefix struct {
	ID      int    `json:"id,omitempty"`
	Prefix  string `json:"prefix"`
	Display string `json:"display,omitempty"`
	Site    Nested `json:"site,omitempty"`
	Status  Choice `json:"status,omitempty"`
}

type vlanWrite struct {
	VID  int    `json:"vid"`
	Name string `json:"name"`
	Site int    `json:"site,omitempty"`
}

type prefixWrite struct {
	Prefix string `json:"prefix"`
	Site   int    `json:"site,omitempty"`
}

type vlanList struct {
	Count   int    `json:"count"`
	Results []VLAN `json:"results"`
}

type prefixList struct {
	Count   int      `json:"count"`
	Results []Prefix `json:"results"`
}

type deviceList struct {
	Count   int      `json:"count"`
	Results []Device `json:"results"`
}
