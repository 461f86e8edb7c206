package constants

const USER_AGENT = "suspense-demo/0.1 (+https://github.com/Amund211/suspense)"
