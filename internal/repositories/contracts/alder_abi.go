package contracts

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
)

// AlderMetaData contains the interface of the deployed Alder registry contract
var AlderMetaData = &bind.MetaData{
	ABI: alderABI,
}

const alderABI = `[
{"type":"function","name":"mintACDR","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"retire","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"setFarmerACDR","stateMutability":"nonpayable","inputs":[{"name":"farmer","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"addFarmer","stateMutability":"nonpayable","inputs":[{"name":"farmer","type":"address"},{"name":"farmerId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"removeFarmer","stateMutability":"nonpayable","inputs":[{"name":"farmer","type":"address"}],"outputs":[]},
{"type":"function","name":"addVVB","stateMutability":"nonpayable","inputs":[{"name":"vvb","type":"address"},{"name":"vvbId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"removeVVB","stateMutability":"nonpayable","inputs":[{"name":"vvb","type":"address"}],"outputs":[]},
{"type":"function","name":"assignVVBToProject","stateMutability":"nonpayable","inputs":[{"name":"projectId","type":"uint256"},{"name":"vvb","type":"address"}],"outputs":[]},
{"type":"function","name":"assignVVBToMRV","stateMutability":"nonpayable","inputs":[{"name":"reportId","type":"uint256"},{"name":"vvb","type":"address"}],"outputs":[]},
{"type":"function","name":"acceptProject","stateMutability":"nonpayable","inputs":[{"name":"projectId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"rejectProject","stateMutability":"nonpayable","inputs":[{"name":"projectId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"addMRVReport","stateMutability":"nonpayable","inputs":[{"name":"reportId","type":"uint256"},{"name":"projectId","type":"uint256"},{"name":"owner","type":"address"},{"name":"date","type":"uint256"},{"name":"blob","type":"bytes"}],"outputs":[]},
{"type":"function","name":"removeMRVReport","stateMutability":"nonpayable","inputs":[{"name":"reportId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"addProject","stateMutability":"nonpayable","inputs":[{"name":"projectId","type":"uint256"},{"name":"owner","type":"address"},{"name":"dateOfSubmission","type":"uint256"},{"name":"blob","type":"bytes"}],"outputs":[]},
{"type":"function","name":"removeProject","stateMutability":"nonpayable","inputs":[{"name":"projectId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"getFarmerBalance","stateMutability":"view","inputs":[{"name":"farmer","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getFarmer","stateMutability":"view","inputs":[{"name":"farmer","type":"address"}],"outputs":[{"name":"","type":"tuple","internalType":"struct Alder.Farmer","components":[{"name":"farmerAddress","type":"address"},{"name":"farmerId","type":"uint256"},{"name":"balance","type":"uint256"},{"name":"contribution","type":"uint256"}]}]},
{"type":"function","name":"getVVB","stateMutability":"view","inputs":[{"name":"vvb","type":"address"}],"outputs":[{"name":"","type":"tuple","internalType":"struct Alder.VVB","components":[{"name":"vvbAddress","type":"address"},{"name":"vvbId","type":"uint256"}]}]},
{"type":"function","name":"getFarmerContribution","stateMutability":"view","inputs":[{"name":"farmer","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getFarmerContributionPercentage","stateMutability":"view","inputs":[{"name":"farmer","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getTotalPool","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getProjectDetails","stateMutability":"view","inputs":[{"name":"projectId","type":"uint256"}],"outputs":[{"name":"","type":"tuple","internalType":"struct Alder.Project","components":[{"name":"projectId","type":"uint256"},{"name":"owner","type":"address"},{"name":"dateOfSubmission","type":"uint256"},{"name":"blob","type":"bytes"},{"name":"vvb","type":"address"},{"name":"status","type":"uint8"}]}]},
{"type":"function","name":"getMRVReportDetails","stateMutability":"view","inputs":[{"name":"reportId","type":"uint256"}],"outputs":[{"name":"","type":"tuple","internalType":"struct Alder.MRVReport","components":[{"name":"reportId","type":"uint256"},{"name":"projectId","type":"uint256"},{"name":"owner","type":"address"},{"name":"date","type":"uint256"},{"name":"blob","type":"bytes"},{"name":"vvb","type":"address"}]}]},
{"type":"event","name":"FarmerAdded","anonymous":false,"inputs":[{"name":"farmer","type":"address","indexed":true},{"name":"farmerId","type":"uint256","indexed":false}]},
{"type":"event","name":"FarmerRemoved","anonymous":false,"inputs":[{"name":"farmer","type":"address","indexed":true}]},
{"type":"event","name":"VVBAdded","anonymous":false,"inputs":[{"name":"vvb","type":"address","indexed":true},{"name":"vvbId","type":"uint256","indexed":false}]},
{"type":"event","name":"VVBRemoved","anonymous":false,"inputs":[{"name":"vvb","type":"address","indexed":true}]},
{"type":"event","name":"ProjectAdded","anonymous":false,"inputs":[{"name":"projectId","type":"uint256","indexed":true},{"name":"owner","type":"address","indexed":true}]},
{"type":"event","name":"ProjectAccepted","anonymous":false,"inputs":[{"name":"projectId","type":"uint256","indexed":true}]},
{"type":"event","name":"ProjectRejected","anonymous":false,"inputs":[{"name":"projectId","type":"uint256","indexed":true}]},
{"type":"event","name":"MRVReportAdded","anonymous":false,"inputs":[{"name":"reportId","type":"uint256","indexed":true},{"name":"projectId","type":"uint256","indexed":true},{"name":"owner","type":"address","indexed":false}]},
{"type":"event","name":"ACDRMinted","anonymous":false,"inputs":[{"name":"to","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
{"type":"event","name":"ACDRRetired","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]}
]`
