package smartweave

// SmartWeave protocol tag names
const (
	TagAppName         = "App-Name"
	TagAppVersion      = "App-Version"
	TagContractTxId    = "Contract"
	TagInput           = "Input"
	TagInputFormat     = "Input-Format"
	TagContentType     = "Content-Type"
	TagContractSrcTxId = "Contract-Src"
	TagInitState       = "Init-State"
	TagSDK             = "SDK"
)

// SmartWeave protocol tag values
const (
	TagAppNameValue         = "SmartWeaveAction"
	TagAppNameContractValue = "SmartWeaveContract"
	TagAppVersionValue      = "0.3.0"
	TagInputFormatTagValue  = "tag"
	TagInputFormatDataValue = "data"
)

// Arweave limits the total size of tags of a transaction
const MaxTagSpace = 2048
